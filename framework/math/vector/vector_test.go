package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector2dArithmetic(t *testing.T) {
	a := NewVec2d(1, 2)
	b := NewVec2d(3, -1)

	assert.Equal(t, Vector2d{X: 4, Y: 1}, a.Add(b))
	assert.Equal(t, Vector2d{X: -2, Y: 3}, a.Sub(b))
	assert.Equal(t, Vector2d{X: 2, Y: 4}, a.Scl(2))
	assert.Equal(t, 1.0, a.Dot(Vector2d{X: 1, Y: 0}))
}

func TestVector2dDet(t *testing.T) {
	a := NewVec2d(1, 0)
	b := NewVec2d(0, 1)

	assert.Equal(t, 1.0, a.Det(b))
	assert.Equal(t, -1.0, b.Det(a))
}

func TestVector2dLenAndDst(t *testing.T) {
	v := NewVec2d(3, 4)
	assert.Equal(t, 5.0, v.Len())

	other := NewVec2d(0, 0)
	assert.Equal(t, 5.0, v.Dst(other))
}

func TestVector2dLerp(t *testing.T) {
	a := NewVec2d(0, 0)
	b := NewVec2d(10, 10)

	mid := a.Lerp(b, 0.5)
	assert.Equal(t, Vector2d{X: 5, Y: 5}, mid)

	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
}

func TestVector2dNorUnitLength(t *testing.T) {
	v := NewVec2d(3, 4)
	n := v.Nor()

	assert.InDelta(t, 1.0, n.Len(), 1e-9)
}

func TestVector2dNorZeroVectorReturnsZero(t *testing.T) {
	v := NewVec2d(0, 0)
	assert.Equal(t, Vector2d{}, v.Nor())
}

func TestVector2fCopyRoundTrips(t *testing.T) {
	f := NewVec2f(1.5, -2.5)
	d := f.Copy64()
	back := d.Copy32()

	assert.Equal(t, f, back)
}

func TestVector2fLen(t *testing.T) {
	v := NewVec2f(3, 4)
	assert.Equal(t, float32(5), v.Len())
}

func TestVector2fDst(t *testing.T) {
	a := NewVec2f(0, 0)
	b := NewVec2f(6, 8)

	assert.InDelta(t, 10.0, float64(a.Dst(b)), 1e-5)
}

func TestVector2dSqrtNeverNaNForOrigin(t *testing.T) {
	v := NewVec2d(0, 0)
	assert.False(t, math.IsNaN(v.Len()))
}
