package lzt

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks labels major ticks with the fewest digits that still tell
// them apart, which keeps shower shape axes (f3, weta2) readable.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}
	if !(max > min) || math.IsInf(max-min, 0) {
		return plot.DefaultTicks{}.Ticks(min, max)
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	var labels []float64
	val := math.Floor(min/majorDelta) * majorDelta
	for ; val <= max; val += majorDelta {
		if val >= min {
			labels = append(labels, val)
		}
	}
	prec := int(math.Ceil(math.Log10(math.Abs(val))) - math.Floor(math.Log10(majorDelta)))

	ticks := make([]plot.Tick, 0, len(labels))
	major := make(map[float64]bool, len(labels))
	for _, v := range labels {
		v = roundPrec(v, prec)
		major[v] = true
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}
	for val = math.Floor(min/minorDelta) * minorDelta; val <= max; val += minorDelta {
		if val >= min && !major[val] {
			ticks = append(ticks, plot.Tick{Value: val})
		}
	}
	return ticks
}

// roundPrec rounds x half away from zero to prec decimal digits.
func roundPrec(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}
	if x == 0 {
		return 0
	}
	return x / pow
}
