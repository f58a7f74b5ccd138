package parser

import (
	"strconv"
	"strings"

	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
	"github.com/neomodnet/neomod-sub003/framework/math/vector"
)

const (
	bitSlider     = 0x2
	bitNewCombo   = 0x4
	bitSpinner    = 0x8
	bitColourSkip = 0x70
	bitManiaHold  = 0x80

	maxRepeat = 9000

	// pixelLengthLimit is the clamp boundary for a slider's pixel length: the
	// "1e+40" infinity token clamps to exactly 32768, the full coordinateLimit
	// diameter rather than its radius.
	pixelLengthLimit = 32768.0
)

// parseHitObject parses one [HitObjects] CSV line. A malformed individual
// line (unknown/unsupported type, short field list) is simply skipped -- it
// does not fail the whole file, the same way a stray mania hold-note line
// is skipped rather than rejected.
func (st *parseState) parseHitObject(line string) {
	fields := splitInto(&st.csvScratch, line, ',')
	if len(fields) < 5 {
		return
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	t, errT := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	typeByte, errType := strconv.Atoi(strings.TrimSpace(fields[3]))

	if errX != nil || errY != nil || errT != nil || errType != nil {
		return
	}

	if typeByte&bitManiaHold != 0 {
		return
	}

	skip := (typeByte & bitColourSkip) >> 4
	st.colourOffset += skip

	isSpinner := typeByte&bitSpinner != 0
	isSlider := typeByte&bitSlider != 0
	isNewCombo := typeByte&bitNewCombo != 0

	if !isSpinner {
		if st.firstNonSpinner {
			isNewCombo = true
			st.firstNonSpinner = false
		} else if isNewCombo {
			st.colourCounter++
		}
	}

	if isNewCombo {
		st.comboNumber = 1
	} else {
		st.comboNumber++
	}

	base := objects.BaseObject{
		StartTime:    t,
		EndTime:      t,
		Position:     vector.NewVec2f(clampCoord(x), clampCoord(y)),
		NewCombo:     isNewCombo,
		ComboNum:     st.comboNumber,
		ColorOffset_: st.colourOffset,
	}
	base.StackedPos = base.Position

	switch {
	case isSlider:
		slider := st.parseSlider(fields, base)
		if slider == nil {
			return
		}

		st.container.HitObjects = append(st.container.HitObjects, slider)
		st.container.NumSliders++
	case isSpinner:
		if len(fields) < 6 {
			return
		}

		end, err := strconv.ParseInt(strings.TrimSpace(fields[5]), 10, 64)
		if err != nil {
			return
		}

		base.EndTime = end

		spinner := &objects.Spinner{BaseObject: base}
		if len(fields) >= 7 {
			spinner.Sample = parseHitSample(fields[6])
		} else {
			spinner.Sample = objects.DefaultHitSample()
		}

		st.container.HitObjects = append(st.container.HitObjects, spinner)
		st.container.NumSpinners++
	default:
		circle := &objects.Circle{BaseObject: base}
		st.container.HitObjects = append(st.container.HitObjects, circle)
		st.container.NumCircles++
	}
}

// infinityLengthToken matches a pixel-length token that encodes the
// original client's "1e+40"-style saturated float: any token with an "e+"
// mantissa at the position the pixel length is parsed clamps to the
// coordinate limit magnitude (32768), not the literal huge value.
func infinityLengthToken(tok string) bool {
	return strings.Contains(strings.ToLower(tok), "e+")
}

func (st *parseState) parseSlider(fields []string, base objects.BaseObject) *objects.Slider {
	if len(fields) < 8 {
		return nil
	}

	curveField := strings.TrimSpace(fields[5])
	parts := splitPipe(curveField)

	if len(parts) < 1 || len(parts[0]) == 0 {
		return nil
	}

	curveType := parts[0][0]

	points := make([]vector.Vector2f, 0, len(parts))
	points = append(points, base.Position)

	for _, p := range parts[1:] {
		xy := strings.SplitN(p, ":", 2)
		if len(xy) != 2 {
			continue
		}

		px, errX := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		py, errY := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)

		if errX != nil || errY != nil {
			continue // invalid/NaN points dropped
		}

		points = append(points, vector.NewVec2f(clampCoord(px), clampCoord(py)))
	}

	if len(points) < 2 {
		points = append(points, points[0])
	}

	repeat64, err := strconv.ParseInt(strings.TrimSpace(fields[6]), 10, 64)
	if err != nil {
		return nil
	}

	repeat := mutils.Clamp(int(repeat64), 0, maxRepeat)

	lengthTok := strings.TrimSpace(fields[7])

	var pixelLength float64

	if infinityLengthToken(lengthTok) {
		pixelLength = pixelLengthLimit
	} else {
		pl, err := strconv.ParseFloat(lengthTok, 64)
		if err != nil {
			pl = 0
		}

		pixelLength = mutils.ClampF(pl, -pixelLengthLimit, pixelLengthLimit)
	}

	slider := &objects.Slider{
		BaseObject:    base,
		CurveType:     curveType,
		ControlPoints: points,
		Repeat:        repeat,
		PixelLength:   pixelLength,
	}

	edgeCount := repeat + 1

	var edgeSoundTokens, edgeSetTokens []string

	if len(fields) >= 9 && fields[8] != "" {
		edgeSoundTokens = strings.Split(fields[8], "|")
	}

	if len(fields) >= 10 && fields[9] != "" {
		edgeSetTokens = strings.Split(fields[9], "|")
	}

	slider.EdgeSamples = buildEdgeSamples(edgeCount, edgeSoundTokens, edgeSetTokens)

	if len(fields) >= 11 {
		slider.HoverSample = parseHitSample(fields[10])
	} else {
		slider.HoverSample = objects.DefaultHitSample()
	}

	return slider
}

// buildEdgeSamples defaults the first two edges when absent, and defaults
// any middle repeat edges from the start sample.
func buildEdgeSamples(edgeCount int, soundTokens, setTokens []string) []objects.HitSample {
	samples := make([]objects.HitSample, edgeCount)

	start := objects.DefaultHitSample()

	for i := 0; i < edgeCount; i++ {
		sample := start

		if i < len(setTokens) {
			setParts := strings.SplitN(setTokens[i], ":", 2)

			if len(setParts) >= 1 {
				if v, err := strconv.Atoi(strings.TrimSpace(setParts[0])); err == nil {
					sample.SampleSet = objects.SampleSet(v)
				}
			}

			if len(setParts) >= 2 {
				if v, err := strconv.Atoi(strings.TrimSpace(setParts[1])); err == nil {
					sample.AdditionSet = objects.SampleSet(v)
				}
			}
		} else if len(setTokens) > 0 {
			sample = samples[0]
		}

		_ = soundTokens // hit-sound additions affect audio only, out of scope for difficulty/pp

		samples[i] = sample

		if i == 0 {
			start = sample
		}
	}

	return samples
}

func parseHitSample(field string) objects.HitSample {
	field = strings.TrimSpace(field)
	if field == "" {
		return objects.DefaultHitSample()
	}

	parts := strings.Split(field, ":")
	sample := objects.DefaultHitSample()

	if len(parts) >= 1 {
		if v, err := strconv.Atoi(parts[0]); err == nil {
			sample.SampleSet = objects.SampleSet(v)
		}
	}

	if len(parts) >= 2 {
		if v, err := strconv.Atoi(parts[1]); err == nil {
			sample.AdditionSet = objects.SampleSet(v)
		}
	}

	if len(parts) >= 3 {
		if v, err := strconv.Atoi(parts[2]); err == nil {
			sample.Index = v
		}
	}

	if len(parts) >= 4 {
		if v, err := strconv.Atoi(parts[3]); err == nil {
			sample.Volume = v
		}
	}

	if len(parts) >= 5 {
		sample.CustomFile = parts[4]
	}

	return sample
}
