package noise

import (
	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// OpenSimplex wraps opensimplex-go 3D evaluation
type OpenSimplex struct {
	noise opensimplex.Noise
}

func NewOpenSimplex(seed int64) *OpenSimplex {
	return &OpenSimplex{noise: opensimplex.New(seed)}
}

func (o *OpenSimplex) Sample(x, y, z float64) float64 {
	return clampUnit(o.noise.Eval3(x, y, z))
}

// Perlin parameters: alpha is the weight when the sum is formed, beta the harmonic scaling,
// n the number of octaves
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Perlin wraps go-perlin 3D noise, which can overshoot the unit range and is clamped
type Perlin struct {
	noise *perlin.Perlin
}

func NewPerlin(seed int64) *Perlin {
	return &Perlin{noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

func (p *Perlin) Sample(x, y, z float64) float64 {
	return clampUnit(p.noise.Noise3D(x, y, z))
}
