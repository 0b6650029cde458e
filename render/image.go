package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ImageSurface rasterizes into an in-memory RGBA buffer
// Cleared pixels are transparent; fills composite with Porter-Duff over
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface creates a width×height transparent surface
func NewImageSurface(width, height int) *ImageSurface {
	s := &ImageSurface{}
	s.Resize(width, height)
	return s
}

func (s *ImageSurface) Resize(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) Clear(x, y, w, h float64) {
	r := s.rect(x, y, w, h)
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.Transparent, image.Point{}, draw.Src)
}

func (s *ImageSurface) FillRect(x, y, w, h float64, c Color) {
	r := s.rect(x, y, w, h)
	if r.Empty() {
		return
	}
	src := image.NewUniform(c.NRGBA())
	draw.Draw(s.img, r, src, image.Point{}, draw.Over)
}

func (s *ImageSurface) rect(x, y, w, h float64) image.Rectangle {
	width, height := s.Size()
	x0, y0, x1, y1 := PixelRect(x, y, w, h, width, height)
	return image.Rect(x0, y0, x1, y1)
}

// At returns the straight-alpha color of one pixel
func (s *ImageSurface) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(s.img.At(x, y)).(color.NRGBA)
}

// Image exposes the backing buffer, callers must not retain it across Resize
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Snapshot returns a copy scaled by an integer factor using nearest-neighbor sampling
func (s *ImageSurface) Snapshot(scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	b := s.img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), s.img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes a scaled snapshot
func (s *ImageSurface) WritePNG(w io.Writer, scale int) error {
	if err := png.Encode(w, s.Snapshot(scale)); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}
