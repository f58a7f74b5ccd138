package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyRatingZeroForNonPositive(t *testing.T) {
	assert.Equal(t, 0.0, difficultyRating(0))
	assert.Equal(t, 0.0, difficultyRating(-5))
}

func TestDifficultyRatingMonotonic(t *testing.T) {
	assert.Less(t, difficultyRating(1), difficultyRating(4))
}

func TestSliderFactorIsOneWhenAimIsZero(t *testing.T) {
	assert.Equal(t, 1.0, SliderFactor(1, 0))
}

func TestSliderFactorAtMostOne(t *testing.T) {
	f := SliderFactor(3, 4)
	assert.LessOrEqual(t, f, 1.0)
	assert.Greater(t, f, 0.0)
}

func TestCombinedStarRatingZeroWhenBothRatingsZero(t *testing.T) {
	assert.Equal(t, 0.0, CombinedStarRating(0, 0))
}

func TestCombinedStarRatingIncreasesWithEitherSkill(t *testing.T) {
	base := CombinedStarRating(2, 2)
	moreAim := CombinedStarRating(4, 2)
	moreSpeed := CombinedStarRating(2, 4)

	assert.Greater(t, moreAim, base)
	assert.Greater(t, moreSpeed, base)
}

func TestComputeAimRatingAutopilotIsZero(t *testing.T) {
	p := RatingParams{ObjectCount: 500, AdjAR: 9, AdjOD: 8, Autopilot: true}
	assert.Equal(t, 0.0, computeAimRating(5, p))
}

func TestComputeSpeedRatingRelaxIsZero(t *testing.T) {
	p := RatingParams{ObjectCount: 500, AdjAR: 9, AdjOD: 8, Relax: true}
	assert.Equal(t, 0.0, computeSpeedRating(5, p))
}

func TestComputeAimRatingTouchDeviceLowersRating(t *testing.T) {
	p := RatingParams{ObjectCount: 500, AdjAR: 9, AdjOD: 8}
	withoutTD := computeAimRating(5, p)

	p.TouchDevice = true
	withTD := computeAimRating(5, p)

	assert.Less(t, withTD, withoutTD)
}

func TestArFactorZeroInPlateau(t *testing.T) {
	assert.Equal(t, 0.0, arFactor(9))
	assert.Equal(t, 0.0, arFactor(8))
	assert.Equal(t, 0.0, arFactor(10.33))
}

func TestArFactorPositiveOutsidePlateau(t *testing.T) {
	assert.Greater(t, arFactor(11), 0.0)
	assert.Greater(t, arFactor(0), 0.0)
}

func TestLengthBonusIncreasesWithObjectCount(t *testing.T) {
	assert.Less(t, lengthBonus(100), lengthBonus(1000))
	assert.Less(t, lengthBonus(1000), lengthBonus(3000))
}
