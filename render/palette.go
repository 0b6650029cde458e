package render

import "sort"

// Palette role names
const (
	RolePaper      = "paper"
	RoleSoftPink   = "softPink"
	RoleOliveGreen = "oliveGreen"
	RoleLightBeige = "lightBeige"
	RoleLightBlue  = "lightBlue"
)

// Palette is the fixed set of colors the mapper interpolates between
type Palette struct {
	Paper      RGB
	SoftPink   RGB
	OliveGreen RGB
	LightBeige RGB
	LightBlue  RGB
}

// DefaultPalette is a warm paper tone with muted accents
var DefaultPalette = Palette{
	Paper:      RGB{248, 244, 236},
	SoftPink:   RGB{200, 138, 154},
	OliveGreen: RGB{112, 120, 101},
	LightBeige: RGB{212, 196, 177},
	LightBlue:  RGB{173, 202, 230},
}

// Named returns the palette as a role → color map
func (p Palette) Named() map[string]RGB {
	return map[string]RGB{
		RolePaper:      p.Paper,
		RoleSoftPink:   p.SoftPink,
		RoleOliveGreen: p.OliveGreen,
		RoleLightBeige: p.LightBeige,
		RoleLightBlue:  p.LightBlue,
	}
}

// ByName looks up a role
func (p Palette) ByName(name string) (RGB, bool) {
	c, ok := p.Named()[name]
	return c, ok
}

// Names returns the role names in sorted order
func (p Palette) Names() []string {
	named := p.Named()
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
