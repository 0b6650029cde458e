package render

// OpKind identifies a recorded surface call
type OpKind uint8

const (
	OpResize OpKind = iota
	OpClear
	OpFill
)

// Op is one recorded surface call
type Op struct {
	Kind       OpKind
	X, Y, W, H float64
	Color      Color
}

// Recorder is a Surface that logs calls instead of drawing
// Lets driver tests assert the exact paint sequence without rasterizing
type Recorder struct {
	Width, Height int
	Ops           []Op
	Presents      int
}

func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
	r.Ops = append(r.Ops, Op{Kind: OpResize, W: float64(width), H: float64(height)})
}

func (r *Recorder) Clear(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) Present() {
	r.Presents++
}

// Count returns how many ops of kind were recorded
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded ops, keeping dimensions
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.Presents = 0
}
