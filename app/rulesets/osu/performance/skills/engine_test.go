package skills

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/beatmap/parser"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
)

func buildObjects(t *testing.T) ([]*preprocessing.DiffObject, float64) {
	t.Helper()

	lines := []string{
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
		"0,300,4,2,0,50,1,0",
		"",
		"[HitObjects]",
	}

	for i := 0; i < 40; i++ {
		lines = append(lines, posAt(i))
	}

	c, loadErr := parser.Parse([]byte(strings.Join(lines, "\n")), nil)
	require.Equal(t, parser.LoadOK, loadErr)

	d := difficulty.NewDifficulty(c.HPDrainRate, c.CircleSize, c.OverallDifficulty, c.EffectiveAR())
	objs := preprocessing.Build(c, d, 14)

	hitWindow300 := difficulty.ODToHitWindow300(d.GetOD()) / d.GetSpeed()

	return objs, hitWindow300
}

func posAt(i int) string {
	x := 50 + (i%8)*50
	y := 50 + ((i/8)%6)*50
	t := i * 250

	return itoaSkill(x) + "," + itoaSkill(y) + "," + itoaSkill(t) + ",1,0,0:0:0:0:"
}

func itoaSkill(i int) string {
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

func TestComputeProducesNoNegativeDifficulty(t *testing.T) {
	objs, hw := buildObjects(t)

	res := Compute(objs, hw)

	assert.GreaterOrEqual(t, res.AimWithSliders, 0.0)
	assert.GreaterOrEqual(t, res.Speed, 0.0)
	assert.GreaterOrEqual(t, res.AimNoSliders, 0.0)
}

func TestIncrementalMatchesFullAtEnd(t *testing.T) {
	objs, hw := buildObjects(t)

	full := Compute(objs, hw)

	e := NewEngine(hw)
	var incremental Result

	for i := 1; i <= len(objs); i++ {
		incremental = e.Advance(objs, i)
	}

	assert.InDelta(t, full.AimWithSliders, incremental.AimWithSliders, 1e-9)
	assert.InDelta(t, full.Speed, incremental.Speed, 1e-9)
}

func TestAdvanceIsMonotonicInObjectCount(t *testing.T) {
	objs, hw := buildObjects(t)

	e := NewEngine(hw)

	half := e.Advance(objs, len(objs)/2)
	full := e.Advance(objs, len(objs))

	assert.GreaterOrEqual(t, full.AimWithSliders, half.AimWithSliders)
	assert.GreaterOrEqual(t, half.AimWithSliders, 0.0)
}
