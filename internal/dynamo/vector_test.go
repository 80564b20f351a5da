package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3_Arithmetic(t *testing.T) {
	a := V(1, 2, 3)
	b := V(4, 5, 6)

	assert.Equal(t, V(5, 7, 9), a.Add(b))
	assert.Equal(t, V(3, 3, 3), b.Sub(a))
	assert.Equal(t, V(2, 4, 6), a.Scale(2))
	assert.Equal(t, V(-1, -2, -3), a.Neg())
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, V(-3, 6, -3), a.Cross(b))
}

func TestVector3_Length(t *testing.T) {
	tests := []struct {
		v        Vector3
		expected float64
	}{
		{V(3, 4, 0), 5},
		{V(0, 0, 0), 0},
		{V(1, 2, 2), 3},
		{V(-2, 0, 0), 2},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, tt.v.Length(), 1e-12, "Length(%v)", tt.v)
		assert.InDelta(t, tt.expected*tt.expected, tt.v.LengthSquared(), 1e-12)
	}
}

func TestVector3_DegenerateInputs(t *testing.T) {
	assert.Equal(t, Zero, V(1, 2, 3).Div(0), "division by zero yields zero vector")
	assert.Equal(t, Zero, Zero.Normalize(), "zero vector normalizes to zero")

	n := V(0, 3, 4).Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.InDelta(t, 0.6, n.Y, 1e-12)
}

func TestVector3_DistanceTo(t *testing.T) {
	assert.InDelta(t, 5.0, V(1, 1, 1).DistanceTo(V(4, 5, 1)), 1e-12)
	assert.Equal(t, 0.0, V(7, 7, 7).DistanceTo(V(7, 7, 7)))
}

func TestVector3_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector3
		valid bool
	}{
		{"zero", Zero, true},
		{"normal", V(1, -2, 3e10), true},
		{"with NaN", V(1, math.NaN(), 0), false},
		{"with +Inf", V(math.Inf(1), 0, 0), false},
		{"with -Inf", V(0, 0, math.Inf(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.v.IsFinite())
		})
	}
}

func TestColor(t *testing.T) {
	c := RGB(1.5, -0.2, 0.5).Clamp()
	assert.Equal(t, RGB(1, 0, 0.5), c)

	blended := BlendByMass(RGB(1, 0, 0), 3, RGB(0, 0, 1), 1)
	assert.InDelta(t, 0.75, blended.R, 1e-12)
	assert.InDelta(t, 0.25, blended.B, 1e-12)

	assert.Equal(t, "#ff8000", RGB(1, 0.5, 0).Hex())
	assert.Equal(t, RGB(0.5, 0.5, 0.5), Average(White, Color{}))
}

func TestValidationHelpers(t *testing.T) {
	require.NoError(t, CheckPositive("mass", 1, ErrInvalidMass))
	require.NoError(t, CheckNonNegative("radius", 0, ErrInvalidRadius))

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := CheckPositive("mass", bad, ErrInvalidMass)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMass))

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "mass", ve.Field)
	}

	assert.ErrorIs(t, CheckNonNegative("radius", -0.5, ErrInvalidRadius), ErrInvalidRadius)
	assert.ErrorIs(t, CheckVector("position", V(math.NaN(), 0, 0)), ErrInvalidVector)
}

func TestTrigTable(t *testing.T) {
	for _, x := range []float64{0, 0.3, math.Pi / 2, 2, -1.2, 10 * math.Pi} {
		sin, cos := FastSinCos(x)
		assert.InDelta(t, math.Sin(x), sin, 1e-6, "sin(%v)", x)
		assert.InDelta(t, math.Cos(x), cos, 1e-6, "cos(%v)", x)
	}
	small := NewTrigTable(1)
	sin, _ := small.SinCos(math.Pi / 2)
	assert.InDelta(t, 1, sin, 1e-9)
}
