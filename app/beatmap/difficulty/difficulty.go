package difficulty

import "github.com/neomodnet/neomod-sub003/framework/math/mutils"

// HittableRange is the gameplay click-tolerance window in milliseconds; it
// is not part of the difficulty/pp math.
const HittableRange = 300

// Difficulty bundles the beatmap's base CS/AR/OD/HP together with the mods
// in play, and answers every derived quantity (circle radius, AR/OD hit
// windows, clock-rate-adjusted versions of both) that the rest of the
// pipeline needs. It intentionally does NOT model mod override layering --
// CS/AR/OD/HP here are already the resolved base values for the unmodded
// map; HR/EZ adjustment happens in GetCS et al.
type Difficulty struct {
	baseHP, baseCS, baseOD, baseAR float64

	Mods Modifier

	CustomSpeed float64
}

func NewDifficulty(hp, cs, od, ar float64) *Difficulty {
	return &Difficulty{
		baseHP:      hp,
		baseCS:      cs,
		baseOD:      od,
		baseAR:      ar,
		CustomSpeed: 1,
	}
}

func (d *Difficulty) SetMods(mods Modifier) {
	d.Mods = mods
}

func (d *Difficulty) CheckModActive(flags Modifier) bool {
	return d.Mods.Active(flags)
}

func (d *Difficulty) SetCustomSpeed(speed float64) {
	if speed <= 0 {
		speed = 1
	}

	d.CustomSpeed = speed
}

// GetSpeed returns the resolved clock-rate multiplier: DT/NC force 1.5, HT
// forces 0.75, CustomSpeed overrides both when set away from 1.
func (d *Difficulty) GetSpeed() float64 {
	speed := 1.0

	if d.Mods.Active(DoubleTime) || d.Mods.Active(Nightcore) {
		speed = 1.5
	} else if d.Mods.Active(HalfTime) {
		speed = 0.75
	}

	if d.CustomSpeed != 0 && d.CustomSpeed != 1 {
		speed = d.CustomSpeed
	}

	return speed
}

func hrEz(base float64, mods Modifier) float64 {
	v := base

	if mods.Active(HardRock) {
		v = mutils.ClampF(v*1.4, 0, 10)
	} else if mods.Active(Easy) {
		v = v * 0.5
	}

	return v
}

// GetCS applies HardRock/Easy to the circle-size base value; CS uses a
// different HR multiplier (1.3, capped at 10) than AR/OD/HP.
func (d *Difficulty) GetCS() float64 {
	v := d.baseCS

	if d.Mods.Active(HardRock) {
		v = mutils.ClampF(v*1.3, 0, 10)
	} else if d.Mods.Active(Easy) {
		v = v * 0.5
	}

	return v
}

func (d *Difficulty) GetAR() float64 {
	return hrEz(d.baseAR, d.Mods)
}

func (d *Difficulty) GetOD() float64 {
	return hrEz(d.baseOD, d.Mods)
}

func (d *Difficulty) GetHPDrain() float64 {
	return hrEz(d.baseHP, d.Mods)
}

// CircleRadius converts CS into the on-screen hit-circle radius in osu!
// pixels (512x384 playfield).
func CircleRadius(cs float64) float64 {
	return 32 * (1 - 0.7*(cs-5)/5)
}

func (d *Difficulty) CircleRadius() float64 {
	return CircleRadius(d.GetCS())
}

// ARToPreempt converts an approach-rate value to the approach time in ms
// before a circle's hit time that it starts fading in.
func ARToPreempt(ar float64) float64 {
	if ar <= 5 {
		return 1800 - 120*ar
	}

	return 1200 - 150*(ar-5)
}

func PreemptToAR(preempt float64) float64 {
	if preempt > 1200 {
		return (1800 - preempt) / 120
	}

	return 5 + (1200-preempt)/150
}

// ODToHitWindow300 converts overall-difficulty to the scoreV1 300 hit
// window, in ms (OD 10 -> exactly 20ms).
func ODToHitWindow300(od float64) float64 {
	return 80 - 6*od
}

func ODToHitWindow100(od float64) float64 {
	return 140 - 8*od
}

func ODToHitWindow50(od float64) float64 {
	return 200 - 10*od
}

// ARWithSpeed rescales an approach rate for a clock-rate multiplier: convert
// to preempt time, divide by speed, convert back.
func ARWithSpeed(ar, speed float64) float64 {
	if speed == 1 {
		return ar
	}

	return PreemptToAR(ARToPreempt(ar) / speed)
}

// AdjustODByClock rescales overall difficulty for a clock-rate multiplier:
// adjOD = (79.5 - (floor(OD300window) - 0.5)/speed) / 6.
func AdjustODByClock(od, speed float64) float64 {
	window := ODToHitWindow300(od)
	return (79.5 - (mutils.ClampF(floor(window), 0, 1000)-0.5)/speed) / 6
}

func floor(v float64) float64 {
	i := int64(v)
	if float64(i) > v {
		i--
	}

	return float64(i)
}

// PreemptForApproachTime returns the preempt (approach) duration in ms for
// the resolved, speed-adjusted AR.
func (d *Difficulty) PreemptForApproachTime() float64 {
	return ARToPreempt(ARWithSpeed(d.GetAR(), d.GetSpeed()))
}
