package scale

import "math"

// ThresholdMargin is how far above the axis ceiling a threshold may lie and
// still be drawn.
const ThresholdMargin = 10

var (
	// PollutantLadder is the list of axis ceilings for concentration charts.
	PollutantLadder = []float64{1, 10, 50, 100, 200, 250, 300}
	// MeteoLadder is the list of axis ceilings for meteorological charts.
	MeteoLadder = []float64{1, 10, 30, 50, 100, 200, 300}
)

// Axis is a resolved y axis. An unbounded axis lets the renderer pick its
// own upper bound from the data.
type Axis struct {
	Min     float64
	Max     float64
	Bounded bool
}

// Ceiling returns the smallest ladder value greater than or equal to max.
// It reports false when max is above every ladder value or is NaN.
func Ceiling(max float64, ladder []float64) (float64, bool) {
	if math.IsNaN(max) {
		return 0, false
	}
	for _, step := range ladder {
		if max <= step {
			return step, true
		}
	}
	return 0, false
}

// MeteoFloor picks the lower bound of a meteorological chart from the
// smallest observed value.
func MeteoFloor(min float64) float64 {
	switch {
	case min < -5:
		return -10
	case min < 0:
		return -5
	default:
		return 0
	}
}

// Resolve builds the axis for a chart. A positive override replaces the
// ladder ceiling.
func Resolve(floor, observedMax, override float64, ladder []float64) Axis {
	if override > 0 {
		return Axis{Min: floor, Max: override, Bounded: true}
	}
	ceiling, ok := Ceiling(observedMax, ladder)
	return Axis{Min: floor, Max: ceiling, Bounded: ok}
}

// ThresholdVisible reports whether a threshold line at value belongs on the axis.
func ThresholdVisible(value float64, axis Axis) bool {
	if !axis.Bounded {
		return true
	}
	return value <= axis.Max+ThresholdMargin
}
