package render

import (
	"math"

	"github.com/lixenwraith/flowmosaic/vmath"
)

// DefaultAlpha keeps tiles slightly translucent
const DefaultAlpha = 0.95

// Shaping thresholds
const (
	accentLo, accentHi = 0.3, 0.7 // Magnitude band where the pink/blue accent fades in
	beigeLo, beigeHi   = 0.2, 0.5 // Vertical motion band for paper → beige
	oliveLo, oliveHi   = 0.4, 0.7 // Horizontal motion band for olive shading
	oliveWeight        = 0.5
	accentGate         = 0.1 // Accent is skipped below this factor
)

// Mapper converts a cell vector plus a secondary noise sample to a tile color
type Mapper struct {
	Palette Palette
	Alpha   float64
}

// NewMapper returns a mapper over the default palette
func NewMapper() *Mapper {
	return &Mapper{Palette: DefaultPalette, Alpha: DefaultAlpha}
}

// Map is pure: same inputs, same color
func (m *Mapper) Map(v vmath.Vector, secondary float64) Color {
	length := v.GetLength()
	xmove := math.Abs(v.X) * length
	ymove := math.Abs(v.Y) * length

	magnitude := xmove*xmove + ymove*ymove
	factor := vmath.Smoothstep(accentLo, accentHi, magnitude)

	p := &m.Palette
	c := Lerp(p.Paper, p.LightBeige, vmath.Smoothstep(beigeLo, beigeHi, ymove))
	c = Lerp(c, p.OliveGreen, vmath.Smoothstep(oliveLo, oliveHi, xmove)*oliveWeight)

	if factor > accentGate {
		if secondary > 0 {
			c = Lerp(c, p.SoftPink, secondary*factor)
		} else {
			c = Lerp(c, p.LightBlue, -secondary*factor)
		}
	}

	return c.WithAlpha(m.Alpha)
}
