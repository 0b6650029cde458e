package vmath

import "math"

// Vector is a float64 2D direction/magnitude pair
// Value methods return new vectors, pointer methods mutate in place
type Vector struct {
	X, Y float64
}

// NewVector returns a vector with the given components
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// FromPolar returns the vector with the given angle (radians) and length
func FromPolar(angle, length float64) Vector {
	return Vector{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

func (v Vector) Mult(n float64) Vector {
	return Vector{v.X * n, v.Y * n}
}

// Div scales by 1/n, n == 0 yields non-finite components
func (v Vector) Div(n float64) Vector {
	return Vector{v.X / n, v.Y / n}
}

// Copy returns an independent copy
func (v Vector) Copy() Vector {
	return Vector{v.X, v.Y}
}

func (v *Vector) AddTo(o Vector) {
	v.X += o.X
	v.Y += o.Y
}

func (v *Vector) SubFrom(o Vector) {
	v.X -= o.X
	v.Y -= o.Y
}

func (v *Vector) MultTo(n float64) {
	v.X *= n
	v.Y *= n
}

// GetAngle returns atan2(y, x) in radians
// Zero vector reports 0
func (v Vector) GetAngle() float64 {
	return math.Atan2(v.Y, v.X)
}

// GetLength returns the Euclidean norm
func (v Vector) GetLength() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// GetLengthSq returns squared norm without sqrt
func (v Vector) GetLengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector) DistanceTo(o Vector) float64 {
	return v.Sub(o).GetLength()
}

// SetAngle rotates to angle keeping the current length
func (v *Vector) SetAngle(angle float64) {
	length := v.GetLength()
	v.X = math.Cos(angle) * length
	v.Y = math.Sin(angle) * length
}

// SetLength rescales to length keeping the current angle
// A zero vector takes angle 0; negative length points the opposite way
func (v *Vector) SetLength(length float64) {
	angle := v.GetAngle()
	v.X = math.Cos(angle) * length
	v.Y = math.Sin(angle) * length
}

// SetPolar assigns angle and length together
// Matches SetAngle followed by SetLength for any non-zero vector
func (v *Vector) SetPolar(angle, length float64) {
	v.X = math.Cos(angle) * length
	v.Y = math.Sin(angle) * length
}
