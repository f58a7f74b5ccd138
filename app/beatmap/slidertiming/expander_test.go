package slidertiming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
)

func redPoint(offset int64, msPerBeat float64) objects.TimingPoint {
	return objects.TimingPoint{Offset: offset, MsPerBeat: msPerBeat, Uninherited: true}
}

func greenPoint(offset int64, velocityMsPerBeat float64) objects.TimingPoint {
	return objects.TimingPoint{Offset: offset, MsPerBeat: velocityMsPerBeat, Uninherited: false}
}

func TestInfoAtUsesLastRedBeforeTime(t *testing.T) {
	points := []objects.TimingPoint{redPoint(0, 500), redPoint(1000, 250)}

	info := InfoAt(points, 1500)
	assert.Equal(t, 250.0, info.BeatLengthBase)
}

func TestInfoAtAppliesGreenMultiplier(t *testing.T) {
	points := []objects.TimingPoint{redPoint(0, 500), greenPoint(100, -50)}

	info := InfoAt(points, 200)
	assert.InDelta(t, 0.5, info.Multiplier, 1e-9)
	assert.InDelta(t, 250.0, info.BeatLength, 1e-9)
}

func TestInfoAtIgnoresGreenBeforeLastRed(t *testing.T) {
	points := []objects.TimingPoint{greenPoint(0, -50), redPoint(100, 500)}

	info := InfoAt(points, 200)
	assert.Equal(t, 1.0, info.Multiplier)
}

func TestExpandSetsSliderTimeFromPixelLengthAndBeatLength(t *testing.T) {
	s := objects.NewSlider()
	s.StartTime = 0
	s.PixelLength = 200
	s.Repeat = 1

	points := []objects.TimingPoint{redPoint(0, 500)}

	err := Expand(s, points, 1.4, 1.0, 14)
	require.NoError(t, err)

	assert.InDelta(t, 500*200/(100*1.4), s.SliderTimeWithoutRepeats, 1e-9)
	assert.Equal(t, s.SliderTimeWithoutRepeats, s.SliderTime)
}

func TestExpandRepeatMultipliesSliderTime(t *testing.T) {
	s := objects.NewSlider()
	s.PixelLength = 200
	s.Repeat = 3

	points := []objects.TimingPoint{redPoint(0, 500)}

	require.NoError(t, Expand(s, points, 1.4, 1.0, 14))

	assert.InDelta(t, s.SliderTimeWithoutRepeats*3, s.SliderTime, 1e-9)
}

func TestExpandScoringTimesAreSortedTickBeforeRepeatBeforeEnd(t *testing.T) {
	s := objects.NewSlider()
	s.PixelLength = 400
	s.Repeat = 2

	points := []objects.TimingPoint{redPoint(0, 500)}

	require.NoError(t, Expand(s, points, 1.4, 2.0, 14))

	require.NotEmpty(t, s.ScoringTimes)

	for i := 1; i < len(s.ScoringTimes); i++ {
		prev, cur := s.ScoringTimes[i-1], s.ScoringTimes[i]
		assert.True(t, prev.Time < cur.Time || (prev.Time == cur.Time && prev.Type <= cur.Type))
	}

	last := s.ScoringTimes[len(s.ScoringTimes)-1]
	assert.Equal(t, objects.ScoringEnd, last.Type)
}

func TestExpandTooManyTicksReturnsError(t *testing.T) {
	s := objects.NewSlider()
	s.PixelLength = 1e9
	s.Repeat = 20

	points := []objects.TimingPoint{redPoint(0, 60000)}

	err := Expand(s, points, 100, 100, 14)
	assert.ErrorIs(t, err, ErrTooManyTicks)
}

func TestBuildTicksEmptyWhenPixelLengthZero(t *testing.T) {
	ticks := buildTicks(0, 10, 1000)
	assert.Nil(t, ticks)
}

func TestBuildTicksCapsAtMaxTicksPerSlider(t *testing.T) {
	ticks := buildTicks(100000, 1, 1000000)
	assert.LessOrEqual(t, len(ticks), maxTicksPerSlider)
}
