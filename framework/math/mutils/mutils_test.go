package mutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 5, Max(5, 3))
	assert.Equal(t, 3, Min(5, 3))
	assert.Equal(t, 2.5, Max(2.5, 1.5))
}

func TestMaxI64MinI64(t *testing.T) {
	assert.Equal(t, int64(9), MaxI64(9, 4))
	assert.Equal(t, int64(4), MinI64(9, 4))
}

func TestClampBoundsValue(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, 0, 10))
	assert.Equal(t, 10, Clamp(15, 0, 10))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestClampFMatchesGenericClamp(t *testing.T) {
	assert.Equal(t, 0.0, ClampF(-1.5, 0, 10))
	assert.Equal(t, 10.0, ClampF(100, 0, 10))
}

func TestLerpEndpointsAndMidpoint(t *testing.T) {
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
}

func TestReverseLerpIsLerpInverse(t *testing.T) {
	t_ := ReverseLerp(7, 0, 10)
	assert.InDelta(t, 0.7, t_, 1e-9)
	assert.InDelta(t, 7.0, Lerp(0, 10, t_), 1e-9)
}

func TestReverseLerpDegenerateRangeReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, ReverseLerp(5, 3, 3))
}

func TestSmoothstepClampsAndIsMonotonic(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(-1, 0, 1))
	assert.Equal(t, 1.0, Smoothstep(2, 0, 1))

	lo := Smoothstep(0.2, 0, 1)
	hi := Smoothstep(0.8, 0, 1)
	assert.Less(t, lo, hi)
}

func TestSmoothstepDegenerateEdgesIsStep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(1, 5, 5))
	assert.Equal(t, 1.0, Smoothstep(10, 5, 5))
}

func TestSmootherstepClampsToUnitRange(t *testing.T) {
	assert.Equal(t, 0.0, Smootherstep(-1, 0, 1))
	assert.Equal(t, 1.0, Smootherstep(2, 0, 1))
}

func TestLogisticIsHalfAtZero(t *testing.T) {
	assert.InDelta(t, 0.5, Logistic(0), 1e-9)
}

func TestLogisticFromValueZeroMaxValueReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, LogisticFromValue(5, 0, 1, 0))
}

func TestRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(2), Round(1.5))
	assert.Equal(t, int64(-1), Round(-1.5))
	assert.Equal(t, int64(3), Round(2.9))
}
