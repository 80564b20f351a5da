package dynamo

import (
	"fmt"
	"math"
)

// Vector3 is a 3D vector. Methods return new values and never modify the
// receiver.
type Vector3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Zero is the zero vector.
var Zero = Vector3{}

func V(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) Add(o Vector3) Vector3        { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3        { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3      { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Neg() Vector3                 { return Vector3{-v.X, -v.Y, -v.Z} }
func (v Vector3) Dot(o Vector3) float64        { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) LengthSquared() float64       { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vector3) Length() float64              { return math.Sqrt(v.LengthSquared()) }
func (v Vector3) DistanceTo(o Vector3) float64 { return v.Sub(o).Length() }

// Div divides every component by s. Division by zero yields the zero vector.
func (v Vector3) Div(s float64) Vector3 {
	if s == 0 {
		return Vector3{}
	}
	return v.Scale(1 / s)
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector3) Normalize() Vector3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vector3{}
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
