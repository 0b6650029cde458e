package web

import (
	"fmt"

	"github.com/lixenwraith/flowmosaic/render"
)

// Message types on the websocket
const (
	TypeResize = "resize"
	TypeFrame  = "frame"
)

// ClientMessage is sent by the browser
type ClientMessage struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Tile is one painted rectangle, color is a canvas fillStyle
type Tile struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"`
}

// Frame is everything painted since the last clear
type Frame struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"tiles"`
}

func fillStyle(c render.Color) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, c.A)
}

// frameSurface retains the tiles of the current frame and publishes them on Present
// The latest frame wins: a frame is dropped when the writer has not taken the previous one
type frameSurface struct {
	width, height int
	tiles         []Tile
	out           chan Frame
}

func newFrameSurface() *frameSurface {
	return &frameSurface{out: make(chan Frame, 1)}
}

func (s *frameSurface) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.tiles = s.tiles[:0]
}

func (s *frameSurface) Clear(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.tiles = s.tiles[:0]
		return
	}
	kept := s.tiles[:0]
	for _, t := range s.tiles {
		if t.X >= x && t.Y >= y && t.X+t.W <= x+w && t.Y+t.H <= y+h {
			continue
		}
		kept = append(kept, t)
	}
	s.tiles = kept
}

func (s *frameSurface) FillRect(x, y, w, h float64, c render.Color) {
	s.tiles = append(s.tiles, Tile{X: x, Y: y, W: w, H: h, Color: fillStyle(c)})
}

func (s *frameSurface) Present() {
	frame := Frame{
		Type:   TypeFrame,
		Width:  s.width,
		Height: s.height,
		Tiles:  append([]Tile(nil), s.tiles...),
	}
	select {
	case s.out <- frame:
	default:
		select {
		case <-s.out:
		default:
		}
		select {
		case s.out <- frame:
		default:
		}
	}
}

// Frames streams presented frames
func (s *frameSurface) Frames() <-chan Frame {
	return s.out
}
