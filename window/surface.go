package window

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lixenwraith/flowmosaic/render"
)

// Surface draws into an offscreen ebiten image
// Must only be used from the game's Update, ebiten images are not usable before RunGame
type Surface struct {
	img           *ebiten.Image
	width, height int
}

func (s *Surface) Resize(width, height int) {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	s.width, s.height = max(width, 0), max(height, 0)
	if s.width > 0 && s.height > 0 {
		s.img = ebiten.NewImage(s.width, s.height)
	}
}

func (s *Surface) Clear(x, y, w, h float64) {
	if s.img == nil {
		return
	}
	x0, y0, x1, y1 := render.PixelRect(x, y, w, h, s.width, s.height)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	s.img.SubImage(image.Rect(x0, y0, x1, y1)).(*ebiten.Image).Clear()
}

func (s *Surface) FillRect(x, y, w, h float64, c render.Color) {
	if s.img == nil {
		return
	}
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), c.NRGBA(), false)
}

// Image returns the offscreen buffer, nil while the surface is empty
func (s *Surface) Image() *ebiten.Image {
	return s.img
}
