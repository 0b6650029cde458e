// Package field implements the time-varying vector grid that drives the mosaic.
//
// Every cell is recomputed from two noise lookups per update: one for direction and one, offset
// into a distant region of the same noise field, for magnitude. Cells are visited column by column
// (x outer, y inner) so cell (0,0) is always the first one an observer sees in a frame.
package field

import (
	"math"

	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/vmath"
)

// Sampling constants
const (
	angleScale   = 20.0    // Grid units per noise unit for the direction lookup
	lengthScale  = 10.0    // Grid units per noise unit for the magnitude lookup
	lengthOffset = 40000.0 // Moves the magnitude lookup away from the direction lookup
	msPerSecond  = 1000.0
)

// Config holds field tuning
type Config struct {
	// Frequency scales elapsed time before it becomes the noise z axis, 0 means 1
	Frequency float64
}

// CellFunc observes one cell, v points into the grid
type CellFunc func(v *vmath.Vector, x, y int)

// FlowField is a cols×rows grid of vectors animated by a noise source
type FlowField struct {
	width, height float64 // Logical size, cols/rows are its ceilings
	cols, rows    int
	cells         []vmath.Vector // Column-major: cells[x*rows + y]

	time      float64 // Accumulated elapsed milliseconds
	frequency float64

	noise    noise.Source
	observer CellFunc
}

// New creates a field covering width×height and builds its grid
func New(width, height float64, src noise.Source, cfg Config) *FlowField {
	freq := cfg.Frequency
	if freq == 0 {
		freq = 1
	}
	f := &FlowField{
		width:     width,
		height:    height,
		frequency: freq,
		noise:     src,
	}
	f.Build()
	return f
}

// Build reallocates the grid at ceil(width)×ceil(height), all cells zero
// Prior vector state is discarded, accumulated time is kept
func (f *FlowField) Build() {
	f.cols = dimension(f.width)
	f.rows = dimension(f.height)
	f.cells = make([]vmath.Vector, f.cols*f.rows)
}

// dimension converts a logical extent to a cell count, never negative
func dimension(v float64) int {
	c := math.Ceil(v)
	if !(c > 0) {
		return 0
	}
	return int(c)
}

// OnCell installs the per-cell observer, nil removes it
// The observer runs synchronously inside Update right after each cell is recomputed
func (f *FlowField) OnCell(fn CellFunc) {
	f.observer = fn
}

// Update advances time by delta milliseconds and recomputes every cell
func (f *FlowField) Update(delta float64) {
	f.time += delta
	t := (f.time * f.frequency) / msPerSecond

	for x := 0; x < f.cols; x++ {
		fx := float64(x)
		base := x * f.rows
		for y := 0; y < f.rows; y++ {
			fy := float64(y)
			angle := f.noise.Sample(fx/angleScale, fy/angleScale, t) * math.Pi * 2
			length := f.noise.Sample(fx/lengthScale+lengthOffset, fy/lengthScale+lengthOffset, t)

			cell := &f.cells[base+y]
			// SetAngle then SetLength would leave a zero cell at angle 0, so the first frame after Build differs
			cell.SetPolar(angle, length)

			if f.observer != nil {
				f.observer(cell, x, y)
			}
		}
	}
}

// ForEach visits every cell in update order without modifying the grid
func (f *FlowField) ForEach(fn func(v vmath.Vector, x, y int)) {
	for x := 0; x < f.cols; x++ {
		base := x * f.rows
		for y := 0; y < f.rows; y++ {
			fn(f.cells[base+y], x, y)
		}
	}
}

// Cell returns the vector at (x, y), false when out of range
func (f *FlowField) Cell(x, y int) (vmath.Vector, bool) {
	if x < 0 || x >= f.cols || y < 0 || y >= f.rows {
		return vmath.Vector{}, false
	}
	return f.cells[x*f.rows+y], true
}

func (f *FlowField) Cols() int { return f.cols }
func (f *FlowField) Rows() int { return f.rows }

// Len returns the number of cells, always Cols()*Rows()
func (f *FlowField) Len() int { return len(f.cells) }

// Time returns accumulated elapsed milliseconds
func (f *FlowField) Time() float64 { return f.time }

func (f *FlowField) Frequency() float64 { return f.frequency }
