package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestODToHitWindow300ExactAtTen(t *testing.T) {
	assert.Equal(t, 20.0, ODToHitWindow300(10))
}

func TestGetSpeedDoubleTimeIsOneAndAHalf(t *testing.T) {
	d := NewDifficulty(5, 5, 5, 5)
	d.SetMods(DoubleTime)

	assert.Equal(t, 1.5, d.GetSpeed())
}

func TestGetSpeedHalfTimeIsThreeQuarters(t *testing.T) {
	d := NewDifficulty(5, 5, 5, 5)
	d.SetMods(HalfTime)

	assert.Equal(t, 0.75, d.GetSpeed())
}

func TestGetSpeedCustomSpeedOverridesClockMods(t *testing.T) {
	d := NewDifficulty(5, 5, 5, 5)
	d.SetMods(DoubleTime)
	d.SetCustomSpeed(1.25)

	assert.Equal(t, 1.25, d.GetSpeed())
}

func TestGetSpeedDefaultIsOne(t *testing.T) {
	d := NewDifficulty(5, 5, 5, 5)
	assert.Equal(t, 1.0, d.GetSpeed())
}

func TestGetCSHardRockUsesDifferentMultiplierThanAROD(t *testing.T) {
	d := NewDifficulty(5, 4, 5, 5)
	d.SetMods(HardRock)

	assert.InDelta(t, 5.2, d.GetCS(), 1e-9)
}

func TestGetARHardRockClampsAtTen(t *testing.T) {
	d := NewDifficulty(5, 5, 5, 9)
	d.SetMods(HardRock)

	assert.Equal(t, 10.0, d.GetAR())
}

func TestGetODEasyHalvesBase(t *testing.T) {
	d := NewDifficulty(5, 5, 8, 5)
	d.SetMods(Easy)

	assert.Equal(t, 4.0, d.GetOD())
}

func TestARWithSpeedIdentityAtSpeedOne(t *testing.T) {
	assert.Equal(t, 9.0, ARWithSpeed(9, 1))
}

func TestARWithSpeedRoundTripsThroughPreempt(t *testing.T) {
	preempt := ARToPreempt(9)
	assert.InDelta(t, 9.0, PreemptToAR(preempt), 1e-9)
}

func TestCircleRadiusDecreasesWithCS(t *testing.T) {
	assert.Greater(t, CircleRadius(0), CircleRadius(10))
}
