package noise

import "math"

// Skew and unskew factors for 3D
const (
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0
)

// Ken Perlin's reference permutation
var basePerm = [256]uint8{
	151, 160, 137, 91, 90, 15,
	131, 13, 201, 95, 96, 53, 194, 233, 7, 225, 140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23,
	190, 6, 148, 247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32, 57, 177, 33,
	88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175, 74, 165, 71, 134, 139, 48, 27, 166,
	77, 146, 158, 231, 83, 111, 229, 122, 60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244,
	102, 143, 54, 65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169, 200, 196,
	135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64, 52, 217, 226, 250, 124, 123,
	5, 202, 38, 147, 118, 126, 255, 82, 85, 212, 207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42,
	223, 183, 170, 213, 119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104, 218, 246, 97, 228,
	251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241, 81, 51, 145, 235, 249, 14, 239, 107,
	49, 192, 214, 31, 181, 199, 106, 157, 184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254,
	138, 236, 205, 93, 222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// Edge midpoints of a cube, indexed by perm % 12
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Simplex is seeded 3D simplex noise
// The permutation table is per-instance, doubled to avoid index wrapping
type Simplex struct {
	perm  [512]int
	gradP [512]*[3]float64
}

// NewSimplex returns simplex noise with the given seed
// Seed 0 yields the unshuffled reference field
func NewSimplex(seed int64) *Simplex {
	s := &Simplex{}
	s.Seed(seed)
	return s
}

// Seed rebuilds the permutation table
// Only the low 16 bits matter; seeds below 256 are mirrored into the high byte
func (s *Simplex) Seed(seed int64) {
	v := int(seed & 0xFFFF)
	if v < 256 {
		v |= v << 8
	}
	for i := 0; i < 256; i++ {
		var p int
		if i&1 != 0 {
			p = int(basePerm[i]) ^ (v & 255)
		} else {
			p = int(basePerm[i]) ^ ((v >> 8) & 255)
		}
		s.perm[i] = p
		s.perm[i+256] = p
		s.gradP[i] = &grad3[p%12]
		s.gradP[i+256] = &grad3[p%12]
	}
}

func dot3(g *[3]float64, x, y, z float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z
}

// Sample returns simplex noise at (x, y, z) in [-1, 1]
func (s *Simplex) Sample(xin, yin, zin float64) float64 {
	// Skew input space to find the containing simplex cell
	sk := (xin + yin + zin) * f3
	i := int(math.Floor(xin + sk))
	j := int(math.Floor(yin + sk))
	k := int(math.Floor(zin + sk))

	t := float64(i+j+k) * g3
	x0 := xin - float64(i) + t
	y0 := yin - float64(j) + t
	z0 := zin - float64(k) + t

	// Offsets of the second and third corners
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2*g3
	y2 := y0 - float64(j2) + 2*g3
	z2 := z0 - float64(k2) + 2*g3
	x3 := x0 - 1 + 3*g3
	y3 := y0 - 1 + 3*g3
	z3 := z0 - 1 + 3*g3

	i &= 255
	j &= 255
	k &= 255
	perm := &s.perm
	gi0 := s.gradP[i+perm[j+perm[k]]]
	gi1 := s.gradP[i+i1+perm[j+j1+perm[k+k1]]]
	gi2 := s.gradP[i+i2+perm[j+j2+perm[k+k2]]]
	gi3 := s.gradP[i+1+perm[j+1+perm[k+1]]]

	n := corner(gi0, x0, y0, z0) +
		corner(gi1, x1, y1, z1) +
		corner(gi2, x2, y2, z2) +
		corner(gi3, x3, y3, z3)

	// Scale to stay inside [-1, 1]
	return clampUnit(32 * n)
}

// corner returns one vertex contribution with radial falloff
func corner(g *[3]float64, x, y, z float64) float64 {
	t := 0.6 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	t *= t
	return t * t * dot3(g, x, y, z)
}
