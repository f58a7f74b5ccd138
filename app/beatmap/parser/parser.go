// Package parser implements the text beatmap parser: turns the raw bytes of
// a .osu file into a beatmap.PrimitiveContainer, or fails with one of the
// LoadError kinds.
package parser

import (
	"bufio"
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
	"github.com/neomodnet/neomod-sub003/app/beatmap/slidertiming"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

// coordinateLimit is half the osu! playfield's 32768-unit coordinate span:
// positions are sanitized into [-coordinateLimit, coordinateLimit].
const coordinateLimit = 32768.0 / 2

type section int

const (
	sectionNone section = iota
	sectionGeneral
	sectionMetadata
	sectionDifficulty
	sectionEvents
	sectionTimingPoints
	sectionColours
	sectionHitObjects
)

// parseState holds the scratch buffers and running bookkeeping the parser
// needs across lines; kept on one struct and reused per call so a 10000+
// object beatmap doesn't reallocate its CSV/pipe split buffers per line.
type parseState struct {
	container *beatmap.PrimitiveContainer

	sec section

	csvScratch  []string
	pipeScratch []string

	comboNumber     int
	colourCounter   int
	colourOffset    int
	firstNonSpinner bool

	sawVersion bool
}

// Parse turns raw beatmap bytes into a PrimitiveContainer. cancel, if
// non-nil, is polled periodically and yields LoadInterrupted as soon as
// it's closed or receives a value.
func Parse(data []byte, cancel <-chan struct{}) (*beatmap.PrimitiveContainer, LoadError) {
	if len(data) == 0 {
		return nil, FileLoad
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM tolerance

	st := &parseState{
		container:       &beatmap.PrimitiveContainer{},
		firstNonSpinner: true,
		comboNumber:     1,
	}
	st.container.SliderMultiplier = 1.4
	st.container.SliderTickRate = 1

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		if lineNo%512 == 0 && isCancelled(cancel) {
			return nil, LoadInterrupted
		}

		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "//") {
			continue
		}

		if !st.sawVersion {
			if idx := strings.Index(line, "osu file format v"); idx >= 0 {
				verStr := strings.TrimSpace(line[idx+len("osu file format v"):])
				ver, err := strconv.Atoi(verStr)
				if err != nil {
					return nil, UnknownVersion
				}

				if ver > SupportedVersion {
					return nil, UnknownVersion
				}

				st.container.FormatVersion = ver
				st.sawVersion = true

				continue
			}

			return nil, FileLoad
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			st.sec = sectionFromHeader(line)
			continue
		}

		if err := st.parseLine(line); err != LoadOK {
			return nil, err
		}
	}

	if !st.sawVersion {
		return nil, FileLoad
	}

	if st.container.Mode != 0 {
		return nil, NonStdGamemode
	}

	if len(st.container.TimingPoints) == 0 {
		return nil, NoTimingPoints
	}

	if len(st.container.HitObjects) == 0 {
		return nil, NoObjects
	}

	if len(st.container.HitObjects) > MaxHitObjects {
		return nil, TooManyHitObjects
	}

	sortTimingPoints(st.container.TimingPoints)

	if errc := st.expandSliderTiming(cancel); errc != LoadOK {
		return nil, errc
	}

	const eagerCurveSliderLimit = 5000
	if st.container.NumSliders < eagerCurveSliderLimit {
		for _, o := range st.container.HitObjects {
			if s, ok := o.(*objects.Slider); ok {
				s.BuildCurve()
			}
		}
	}

	sortHitObjects(st.container.HitObjects)

	for i, o := range st.container.HitObjects {
		o.SetNumber(int64(i))
	}

	return st.container, LoadOK
}

func isCancelled(cancel <-chan struct{}) bool {
	if cancel == nil {
		return false
	}

	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

func sectionFromHeader(line string) section {
	switch strings.Trim(line, "[]") {
	case "General":
		return sectionGeneral
	case "Metadata":
		return sectionMetadata
	case "Difficulty":
		return sectionDifficulty
	case "Events":
		return sectionEvents
	case "TimingPoints":
		return sectionTimingPoints
	case "Colours":
		return sectionColours
	case "HitObjects":
		return sectionHitObjects
	default:
		return sectionNone
	}
}

func (st *parseState) parseLine(line string) LoadError {
	switch st.sec {
	case sectionGeneral:
		return st.parseKeyValue(line, st.applyGeneral)
	case sectionMetadata:
		return st.parseKeyValue(line, st.applyMetadata)
	case sectionDifficulty:
		return st.parseKeyValue(line, st.applyDifficulty)
	case sectionEvents:
		st.parseEvent(line)
	case sectionTimingPoints:
		st.parseTimingPoint(line)
	case sectionColours:
		st.parseColour(line)
	case sectionHitObjects:
		st.parseHitObject(line)
	}

	return LoadOK
}

func (st *parseState) parseKeyValue(line string, apply func(key, value string)) LoadError {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return LoadOK
	}

	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])

	apply(key, value)

	return LoadOK
}

func (st *parseState) applyGeneral(key, value string) {
	switch key {
	case "Mode":
		st.container.Mode, _ = strconv.Atoi(value)
	case "StackLeniency":
		st.container.StackLeniency = parseFloatOr(value, 0.7)
	case "PreviewTime":
		pt, _ := strconv.ParseInt(value, 10, 64)
		st.container.PreviewTime = pt
	case "AudioFilename":
		st.container.AudioFile = value
	}
}

func (st *parseState) applyMetadata(key, value string) {
	switch key {
	case "Title":
		st.container.Title = value
	case "TitleUnicode":
		st.container.TitleUnicode = value
	case "Artist":
		st.container.Artist = value
	case "ArtistUnicode":
		st.container.ArtistUnicode = value
	case "Creator":
		st.container.Creator = value
	case "Version":
		st.container.Version = value
	case "Source":
		st.container.Source = value
	case "Tags":
		st.container.Tags = strings.Fields(value)
	case "BeatmapID":
		v, _ := strconv.ParseInt(value, 10, 64)
		st.container.BeatmapID = v
	case "BeatmapSetID":
		v, _ := strconv.ParseInt(value, 10, 64)
		st.container.BeatmapSetID = v
	}
}

func (st *parseState) applyDifficulty(key, value string) {
	switch key {
	case "CircleSize":
		st.container.CircleSize = parseFloatOr(value, 5)
	case "ApproachRate":
		st.container.ApproachRate = parseFloatOr(value, 5)
		st.container.ApproachRateSet = true
	case "OverallDifficulty":
		st.container.OverallDifficulty = parseFloatOr(value, 5)
	case "HPDrainRate":
		st.container.HPDrainRate = parseFloatOr(value, 5)
	case "SliderMultiplier":
		st.container.SliderMultiplier = parseFloatOr(value, 1.4)
	case "SliderTickRate":
		st.container.SliderTickRate = parseFloatOr(value, 1)
	}
}

func (st *parseState) parseEvent(line string) {
	fields := splitInto(&st.csvScratch, line, ',')
	if len(fields) < 3 {
		return
	}

	if strings.TrimSpace(fields[0]) != "2" {
		return
	}

	start, err1 := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	end, err2 := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)

	if err1 != nil || err2 != nil {
		return
	}

	st.container.Breaks = append(st.container.Breaks, objects.Break{Start: start, End: end})
}

func parseFloatOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}

	return v
}

func (st *parseState) parseColour(line string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return
	}

	key := strings.TrimSpace(line[:idx])
	if !strings.HasPrefix(key, "Combo") {
		return
	}

	n, err := strconv.Atoi(strings.TrimPrefix(key, "Combo"))
	if err != nil || n < 1 || n > 8 {
		return
	}

	parts := splitInto(&st.pipeScratch, strings.TrimSpace(line[idx+1:]), ',')
	if len(parts) < 3 {
		return
	}

	r, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	g, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	b, _ := strconv.Atoi(strings.TrimSpace(parts[2]))

	st.container.Colours.Combo[n-1] = objects.ComboColour{R: uint8(r), G: uint8(g), B: uint8(b)}

	if n > st.container.Colours.Count {
		st.container.Colours.Count = n
	}
}

func (st *parseState) parseTimingPoint(line string) {
	fields := splitInto(&st.csvScratch, line, ',')
	if len(fields) < 2 {
		return
	}

	offsetF, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return
	}

	msPerBeat, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	isNaN := false

	if err != nil {
		isNaN = true
		msPerBeat = 0
	} else if math.IsNaN(msPerBeat) {
		isNaN = true
	}

	tp := objects.TimingPoint{
		Offset:      mutils.Round(offsetF),
		MsPerBeat:   msPerBeat,
		Meter:       4,
		SampleSet:   objects.SampleSetNormal,
		Uninherited: true,
		IsNaN:       isNaN,
	}

	if len(fields) >= 8 {
		if m, err := strconv.Atoi(strings.TrimSpace(fields[2])); err == nil {
			tp.Meter = m
		}

		if ss, err := strconv.Atoi(strings.TrimSpace(fields[3])); err == nil {
			tp.SampleSet = objects.SampleSet(ss)
		}

		if si, err := strconv.Atoi(strings.TrimSpace(fields[4])); err == nil {
			tp.SampleIndex = si
		}

		if vol, err := strconv.Atoi(strings.TrimSpace(fields[5])); err == nil {
			tp.Volume = mutils.Clamp(vol, 0, 100)
		}

		if u, err := strconv.Atoi(strings.TrimSpace(fields[6])); err == nil {
			tp.Uninherited = u != 0
		}

		if k, err := strconv.Atoi(strings.TrimSpace(fields[7])); err == nil {
			tp.Kiai = k&1 != 0
		}
	} else {
		tp.Uninherited = msPerBeat >= 0
	}

	st.container.TimingPoints = append(st.container.TimingPoints, tp)
}

func sortTimingPoints(tps []objects.TimingPoint) {
	sort.SliceStable(tps, func(i, j int) bool {
		return objects.Less(tps[i], tps[j])
	})
}

func sortHitObjects(objs []objects.IHitObject) {
	sort.SliceStable(objs, func(i, j int) bool {
		a, b := objs[i], objs[j]

		if a.GetStartTime() != b.GetStartTime() {
			return a.GetStartTime() < b.GetStartTime()
		}

		ta, tb := typeRank(a), typeRank(b)
		if ta != tb {
			return ta < tb
		}

		pa, pb := a.GetPosition(), b.GetPosition()
		if pa.X != pb.X {
			return pa.X < pb.X
		}

		return pa.Y < pb.Y
	})
}

func typeRank(o objects.IHitObject) int {
	switch o.(type) {
	case *objects.Circle:
		return 0
	case *objects.Slider:
		return 1
	case *objects.Spinner:
		return 2
	default:
		return 3
	}
}

func clampCoord(v float64) float32 {
	return float32(mutils.ClampF(v, -coordinateLimit, coordinateLimit))
}

// expandSliderTiming runs slider-timing expansion over every parsed slider
// now that timing points are sorted, and caps on the 32768 total-scoring-time
// limit.
func (st *parseState) expandSliderTiming(cancel <-chan struct{}) LoadError {
	for i, o := range st.container.HitObjects {
		if i%256 == 0 && isCancelled(cancel) {
			return LoadInterrupted
		}

		s, ok := o.(*objects.Slider)
		if !ok {
			continue
		}

		if err := slidertiming.Expand(s, st.container.TimingPoints, st.container.SliderMultiplier, st.container.SliderTickRate, st.container.FormatVersion); err != nil {
			return TooManyHitObjects
		}
	}

	return LoadOK
}
