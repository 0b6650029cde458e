package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// svgRect is one retained fill, in integer pixels
type svgRect struct {
	x, y, w, h int
	color      Color
}

// SVGSurface retains fills as rectangles and writes them as an SVG document
// Clear drops every retained fill lying entirely inside the cleared area
type SVGSurface struct {
	width, height int
	rects         []svgRect
}

func NewSVGSurface(width, height int) *SVGSurface {
	s := &SVGSurface{}
	s.Resize(width, height)
	return s
}

func (s *SVGSurface) Resize(width, height int) {
	s.width = max(width, 0)
	s.height = max(height, 0)
	s.rects = s.rects[:0]
}

func (s *SVGSurface) Size() (int, int) {
	return s.width, s.height
}

func (s *SVGSurface) Clear(x, y, w, h float64) {
	x0, y0, x1, y1 := PixelRect(x, y, w, h, s.width, s.height)
	kept := s.rects[:0]
	for _, r := range s.rects {
		inside := r.x >= x0 && r.y >= y0 && r.x+r.w <= x1 && r.y+r.h <= y1
		if !inside {
			kept = append(kept, r)
		}
	}
	s.rects = kept
}

func (s *SVGSurface) FillRect(x, y, w, h float64, c Color) {
	x0, y0, x1, y1 := PixelRect(x, y, w, h, s.width, s.height)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	s.rects = append(s.rects, svgRect{x: x0, y: y0, w: x1 - x0, h: y1 - y0, color: c})
}

// Len returns the number of retained fills
func (s *SVGSurface) Len() int {
	return len(s.rects)
}

// WriteSVG emits the retained fills in paint order
func (s *SVGSurface) WriteSVG(w io.Writer) {
	canvas := svg.New(w)
	canvas.Start(s.width, s.height)
	canvas.Title("flowmosaic")
	for _, r := range s.rects {
		canvas.Rect(r.x, r.y, r.w, r.h, fillStyle(r.color))
	}
	canvas.End()
}

func fillStyle(c Color) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f", c.Hex(), c.A)
}
