package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var gridColor = drawing.ColorFromHex("a9a9a9")

// Render draws fig as a PNG into w.
func Render(fig Figure, w io.Writer) error {
	graph, err := build(fig)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render figure: %w", err)
	}
	return nil
}

// SaveFile renders fig to path, creating its directory. The file is only
// written once rendering succeeded.
func SaveFile(fig Figure, path string) error {
	var buf bytes.Buffer
	if err := Render(fig, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create figure directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}
	return nil
}

func build(fig Figure) (chart.Chart, error) {
	l, err := fig.layout()
	if err != nil {
		return chart.Chart{}, err
	}
	from, to, ok := fig.span()
	if !ok {
		return chart.Chart{}, ErrEmptyFigure
	}
	if !to.After(from) {
		to = from.Add(time.Hour)
	}

	width, height := l.Pixels()
	tickSize := tickFontSize
	if fig.TickFontSize > 0 {
		tickSize = fig.TickFontSize
	}
	markerSize := fig.MarkerSize
	if markerSize <= 0 {
		markerSize = DefaultMarkerSize
	}

	series := make([]chart.Series, 0, len(fig.Lines)+len(fig.Thresholds))
	for _, line := range fig.Lines {
		style := chart.Style{
			StrokeColor: colorOf(line.Color),
			StrokeWidth: pixels(dataWidth),
		}
		if line.Markers {
			style.DotColor = style.StrokeColor
			style.DotWidth = pixels(markerSize) / 2
		}
		for _, seg := range timeseries.Segments(line.Index, line.Values) {
			ts := chart.TimeSeries{
				Name:    line.Label,
				Style:   style,
				YAxis:   chart.YAxisSecondary,
				XValues: make([]time.Time, len(seg)),
				YValues: make([]float64, len(seg)),
			}
			for i, p := range seg {
				ts.XValues[i] = p.Time
				ts.YValues[i] = p.Value
			}
			series = append(series, ts)
		}
	}
	for _, th := range fig.Thresholds {
		series = append(series, chart.TimeSeries{
			Name: th.Label,
			Style: chart.Style{
				StrokeColor: colorOf(th.Color),
				StrokeWidth: pixels(thresholdWide),
			},
			YAxis:   chart.YAxisSecondary,
			XValues: []time.Time{from, to},
			YValues: []float64{th.Value, th.Value},
		})
	}

	ymin, ymax := fig.yRange()
	ticks := yTicks(ymin, ymax)
	yrange := &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}
	tickStyle := chart.Style{FontSize: tickSize}

	fw, fh := float64(width), float64(height)
	return chart.Chart{
		Width:  width,
		Height: height,
		DPI:    DPI,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(math.Round((1 - l.Bottom - l.PlotHeight) * fh)),
				Left:   int(math.Round(l.Left * fw)),
				Right:  int(math.Round((1 - l.Left - l.PlotWidth) * fw)),
				Bottom: int(math.Round(l.Bottom * fh)),
			},
		},
		XAxis: chart.XAxis{
			Style:          tickStyle,
			ValueFormatter: chart.TimeValueFormatterWithFormat(fig.XLayout),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(from),
				Max: chart.TimeToFloat64(to),
			},
		},
		// The values axis is drawn on the left; the right one only holds
		// the same range so the ticks agree.
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: yrange.Min, Max: yrange.Max},
			Ticks: ticks,
		},
		YAxisSecondary: chart.YAxis{
			Style: tickStyle,
			Range: yrange,
			Ticks: ticks,
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: pixels(dataWidth),
			},
		},
		Series: series,
		Elements: []chart.Renderable{
			legend(fig, l.LegendFont),
			unitLabel(fig.Unit),
		},
	}, nil
}

// yTicks spans [min, max] with round steps, the last tick at or above max.
func yTicks(min, max float64) []chart.Tick {
	step := niceStep((max - min) / 5)
	first := math.Floor(min/step+1e-9) * step
	n := int(math.Round((math.Ceil(max/step-1e-9)*step - first) / step))
	ticks := make([]chart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := first + float64(i)*step
		// avoid labels like 0.30000000000000004
		v = math.Round(v*1e6) / 1e6
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return ticks
}

func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}
