package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flowmosaic/render"
)

// Surface buffers cell colors and flushes them to the screen on Present
// Cleared cells show the background, fills blend over whatever the cell holds
type Surface struct {
	screen     tcell.Screen
	background render.RGB

	width, height int
	cells         []render.RGB
}

// NewSurface creates an empty surface, the driver sizes it on start
func NewSurface(screen tcell.Screen, background render.RGB) *Surface {
	return &Surface{screen: screen, background: background}
}

func (s *Surface) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.cells = make([]render.RGB, s.width*s.height)
	for i := range s.cells {
		s.cells[i] = s.background
	}
}

func (s *Surface) Clear(x, y, w, h float64) {
	x0, y0, x1, y1 := render.PixelRect(x, y, w, h, s.width, s.height)
	for py := y0; py < y1; py++ {
		row := s.cells[py*s.width : (py+1)*s.width]
		for px := x0; px < x1; px++ {
			row[px] = s.background
		}
	}
}

func (s *Surface) FillRect(x, y, w, h float64, c render.Color) {
	x0, y0, x1, y1 := render.PixelRect(x, y, w, h, s.width, s.height)
	for py := y0; py < y1; py++ {
		row := s.cells[py*s.width : (py+1)*s.width]
		for px := x0; px < x1; px++ {
			row[px] = render.Blend(row[px], c.RGB, c.A)
		}
	}
}

// Present writes the buffer to the screen and shows it
func (s *Surface) Present() {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			style := tcell.StyleDefault.Background(RGBToTcell(s.cells[y*s.width+x]))
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	s.screen.Show()
}

// At returns the buffered color of a cell
func (s *Surface) At(x, y int) render.RGB {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return s.background
	}
	return s.cells[y*s.width+x]
}
