package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
)

func minimalBeatmap(hitObjectLines ...string) string {
	body := []string{
		"osu file format v14",
		"",
		"[General]",
		"Mode: 0",
		"StackLeniency: 0.7",
		"",
		"[Difficulty]",
		"CircleSize:4",
		"ApproachRate:9",
		"OverallDifficulty:8",
		"HPDrainRate:5",
		"SliderMultiplier:1.4",
		"SliderTickRate:1",
		"",
		"[TimingPoints]",
		"0,500,4,2,0,50,1,0",
		"",
		"[HitObjects]",
	}

	body = append(body, hitObjectLines...)

	return strings.Join(body, "\n")
}

func TestParseBasicCirclesAndSliders(t *testing.T) {
	data := minimalBeatmap(
		"100,100,0,1,0,0:0:0:0:",
		"200,200,500,1,0,0:0:0:0:",
		"300,300,1000,2,0,L|400:300,1,140,0|0,0:0|0:0,0:0:0:0:",
	)

	c, err := Parse([]byte(data), nil)
	require.Equal(t, LoadOK, err)
	require.NotNil(t, c)

	assert.Equal(t, 14, c.FormatVersion)
	assert.Equal(t, 2, c.NumCircles)
	assert.Equal(t, 1, c.NumSliders)
	assert.Len(t, c.HitObjects, 3)

	for i, o := range c.HitObjects {
		assert.Equal(t, int64(i), o.GetNumber())
	}
}

func TestParseSortsHitObjectsByStartTime(t *testing.T) {
	data := minimalBeatmap(
		"300,300,1000,1,0,0:0:0:0:",
		"100,100,0,1,0,0:0:0:0:",
		"200,200,500,1,0,0:0:0:0:",
	)

	c, err := Parse([]byte(data), nil)
	require.Equal(t, LoadOK, err)

	var times []int64
	for _, o := range c.HitObjects {
		times = append(times, o.GetStartTime())
	}

	assert.Equal(t, []int64{0, 500, 1000}, times)
}

func TestParseEmptyFileFails(t *testing.T) {
	_, err := Parse(nil, nil)
	assert.Equal(t, FileLoad, err)
}

func TestParseMissingVersionHeaderFails(t *testing.T) {
	_, err := Parse([]byte("[General]\nMode: 0\n"), nil)
	assert.Equal(t, FileLoad, err)
}

func TestParseUnsupportedVersionFails(t *testing.T) {
	data := strings.Replace(minimalBeatmap("100,100,0,1,0,0:0:0:0:"), "osu file format v14", "osu file format v999", 1)

	_, err := Parse([]byte(data), nil)
	assert.Equal(t, UnknownVersion, err)
}

func TestParseNonStandardGamemodeFails(t *testing.T) {
	data := strings.Replace(minimalBeatmap("100,100,0,1,0,0:0:0:0:"), "Mode: 0", "Mode: 3", 1)

	_, err := Parse([]byte(data), nil)
	assert.Equal(t, NonStdGamemode, err)
}

func TestParseNoHitObjectsFails(t *testing.T) {
	data := minimalBeatmap()

	_, err := Parse([]byte(data), nil)
	assert.Equal(t, NoObjects, err)
}

func TestParseNoTimingPointsFails(t *testing.T) {
	data := strings.Replace(minimalBeatmap("100,100,0,1,0,0:0:0:0:"), "0,500,4,2,0,50,1,0", "", 1)

	_, err := Parse([]byte(data), nil)
	assert.Equal(t, NoTimingPoints, err)
}

func TestParseTooManyHitObjectsFails(t *testing.T) {
	lines := make([]string, 0, MaxHitObjects+1)
	for i := 0; i <= MaxHitObjects; i++ {
		lines = append(lines, "100,100,"+itoa(i)+",1,0,0:0:0:0:")
	}

	data := minimalBeatmap(lines...)

	_, err := Parse([]byte(data), nil)
	assert.Equal(t, TooManyHitObjects, err)
}

func TestParseManiaHoldNoteIsSkippedNotFatal(t *testing.T) {
	data := minimalBeatmap(
		"100,100,0,1,0,0:0:0:0:",
		"200,200,500,128,0,700:0:0:0:0:",
		"300,300,1000,1,0,0:0:0:0:",
	)

	c, err := Parse([]byte(data), nil)
	require.Equal(t, LoadOK, err)
	assert.Equal(t, 2, c.NumCircles)
}

func TestParseInfiniteSliderPixelLengthClampsToCoordinateLimit(t *testing.T) {
	data := minimalBeatmap("100,100,0,2,0,L|200:100,1,1e+40,0|0,0:0|0:0,0:0:0:0:")

	c, err := Parse([]byte(data), nil)
	require.Equal(t, LoadOK, err)
	require.Len(t, c.HitObjects, 1)

	s, ok := c.HitObjects[0].(*objects.Slider)
	require.True(t, ok)
	assert.Equal(t, pixelLengthLimit, s.PixelLength)
}

func TestParseCRLFLineEndings(t *testing.T) {
	data := strings.ReplaceAll(minimalBeatmap("100,100,0,1,0,0:0:0:0:"), "\n", "\r\n")

	c, err := Parse([]byte(data), nil)
	require.Equal(t, LoadOK, err)
	assert.Len(t, c.HitObjects, 1)
}

func TestParseApproachRateDefaultsToOverallDifficulty(t *testing.T) {
	data := strings.Replace(minimalBeatmap("100,100,0,1,0,0:0:0:0:"), "ApproachRate:9\n", "", 1)

	c, err := Parse([]byte(data), nil)
	require.Equal(t, LoadOK, err)
	assert.False(t, c.ApproachRateSet)
	assert.Equal(t, c.OverallDifficulty, c.EffectiveAR())
}

func TestParseCancellationStopsEarly(t *testing.T) {
	lines := make([]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		lines = append(lines, "100,100,"+itoa(i)+",1,0,0:0:0:0:")
	}

	data := minimalBeatmap(lines...)

	cancel := make(chan struct{})
	close(cancel)

	_, err := Parse([]byte(data), cancel)
	assert.Equal(t, LoadInterrupted, err)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	neg := i < 0
	if neg {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)

	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}

	if neg {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
