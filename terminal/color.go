package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flowmosaic/render"
)

// RGBToTcell converts RGB to tcell.Color
func RGBToTcell(rgb render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}
