package render

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/i474232898/airquality-figures/internal/scale"
)

const (
	// DPI is the resolution of every saved figure.
	DPI = 300

	tickFontSize  = 5.8
	unitFontSize  = 6.4
	dataWidth     = 0.3
	thresholdWide = 0.8

	// DefaultMarkerSize is the marker diameter in points.
	DefaultMarkerSize = 2.0
	// DefaultLegendColumns is the legend layout of pollutant charts.
	DefaultLegendColumns = 2
)

var (
	ErrEmptyFigure = errors.New("figure has no data to draw")
	ErrUnknownSize = errors.New("unknown figure size")
)

// Size names a figure format.
type Size string

const (
	Large Size = "L"
	Small Size = "S"
)

// Layout is the physical format of a figure. Plot fractions follow the
// [left, bottom, width, height] convention relative to the whole figure.
type Layout struct {
	Width      float64 // inches
	Height     float64 // inches
	Left       float64
	Bottom     float64
	PlotWidth  float64
	PlotHeight float64
	LegendFont float64 // points
}

var layouts = map[Size]Layout{
	Large: {Width: 6.2992, Height: 3.5433, Left: 0.12, Bottom: 0.2, PlotWidth: 0.85, PlotHeight: 0.62, LegendFont: 5.5},
	Small: {Width: 3.1496, Height: 2.3622, Left: 0.12, Bottom: 0.24, PlotWidth: 0.85, PlotHeight: 0.54, LegendFont: 3.5},
}

// ParseSize accepts L or S, case-insensitively. Empty means Large.
func ParseSize(s string) (Size, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "L":
		return Large, nil
	case "S":
		return Small, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSize, s)
}

// Layout returns the physical format of s.
func (s Size) Layout() (Layout, error) {
	l, ok := layouts[s]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownSize, s)
	}
	return l, nil
}

// Pixels returns the figure dimensions at DPI.
func (l Layout) Pixels() (int, int) {
	return int(math.Round(l.Width * DPI)), int(math.Round(l.Height * DPI))
}

// Line is one plotted column. NaN values split the line.
type Line struct {
	Label   string
	Color   string
	Index   []time.Time
	Values  []float64
	Markers bool
}

// ThresholdLine is a horizontal regulatory limit.
type ThresholdLine struct {
	Label string
	Color string
	Value float64
}

// Figure is everything needed to draw one chart.
type Figure struct {
	Size       Size
	Lines      []Line
	Thresholds []ThresholdLine
	Axis       scale.Axis
	// Unit is printed at the top left of the plot area; empty hides it.
	Unit string
	// XLayout is the time layout of x tick labels.
	XLayout       string
	LegendColumns int
	MarkerSize    float64
	// Bottom overrides the lower plot fraction when positive.
	Bottom float64
	// LegendFontSize and TickFontSize override the size defaults when positive.
	LegendFontSize float64
	TickFontSize   float64
}

func (f Figure) layout() (Layout, error) {
	size := f.Size
	if size == "" {
		size = Large
	}
	l, err := size.Layout()
	if err != nil {
		return Layout{}, err
	}
	if f.Bottom > 0 {
		// keep the top margin, the legend lives there
		top := 1 - l.Bottom - l.PlotHeight
		l.Bottom = f.Bottom
		l.PlotHeight = 1 - top - f.Bottom
	}
	if f.LegendFontSize > 0 {
		l.LegendFont = f.LegendFontSize
	}
	return l, nil
}

// span returns the first and last timestamps carrying a value.
func (f Figure) span() (time.Time, time.Time, bool) {
	var from, to time.Time
	found := false
	for _, line := range f.Lines {
		for i, t := range line.Index {
			if i >= len(line.Values) || math.IsNaN(line.Values[i]) {
				continue
			}
			if !found || t.Before(from) {
				from = t
			}
			if !found || t.After(to) {
				to = t
			}
			found = true
		}
	}
	return from, to, found
}

// yRange resolves the drawn y bounds. An unbounded axis stretches to the
// data and the visible thresholds.
func (f Figure) yRange() (float64, float64) {
	if f.Axis.Bounded {
		return f.Axis.Min, f.Axis.Max
	}
	max := math.Inf(-1)
	for _, line := range f.Lines {
		for _, v := range line.Values {
			if !math.IsNaN(v) && v > max {
				max = v
			}
		}
	}
	for _, th := range f.Thresholds {
		if th.Value > max {
			max = th.Value
		}
	}
	max *= 1.05
	if math.IsInf(max, 0) || max <= f.Axis.Min {
		max = f.Axis.Min + 1
	}
	return f.Axis.Min, max
}

// pixels converts a length in points to pixels at DPI.
func pixels(pt float64) float64 {
	return pt * DPI / 72
}
