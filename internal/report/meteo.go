package report

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/scale"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

const (
	rainfall   = "RR1"
	cumulative = "cumul"

	meteoLegendColumns = 3
)

// MeteoRequest describes a chart of meteorological parameters at a station.
type MeteoRequest struct {
	// Station defaults to the referential default station.
	Station    string
	Parameters []string
	From       time.Time
	To         time.Time
	// Cumulative adds the running total of precipitation.
	Cumulative bool

	Size          render.Size
	MarkerSize    float64
	LegendColumns int
	YMax          float64
}

// Meteo builds the hourly chart of meteorological parameters.
func (b *Builder) Meteo(ctx context.Context, req MeteoRequest) (Chart, error) {
	station := req.Station
	if station == "" {
		station = b.ref.DefaultStation
	}
	for _, code := range req.Parameters {
		if _, err := b.ref.MeteoParameter(code); err != nil {
			return Chart{}, err
		}
	}
	if req.Cumulative && !slices.Contains(req.Parameters, rainfall) {
		return Chart{}, ErrCumulativeNeedsRainfall
	}

	frame, err := b.source.FetchMeteo(ctx, measures.MeteoQuery{
		Station:    station,
		Parameters: req.Parameters,
		From:       req.From,
		To:         req.To,
	})
	if err != nil {
		return Chart{}, err
	}
	frame = timeseries.Resample(frame, timeseries.Hourly, timeseries.Mean, b.loc)

	if rr, ok := frame.Column(rainfall); ok && req.Cumulative {
		if frame, err = frame.WithColumn(cumulative, timeseries.CumSum(rr.Values)); err != nil {
			return Chart{}, err
		}
	}
	if frame.Empty() || math.IsNaN(frame.Max()) {
		return Chart{}, ErrNoData
	}

	stats := Describe(frame)
	for _, c := range stats.Columns {
		if c.Name == rainfall {
			stats.Rainfall, stats.HasRainfall = c.Sum, true
		}
	}

	columns := req.LegendColumns
	if columns <= 0 {
		columns = meteoLegendColumns
	}
	fig := render.Figure{
		Size:          req.Size,
		LegendColumns: columns,
		MarkerSize:    req.MarkerSize,
		XLayout:       timeseries.Hourly.Layout(),
	}
	if req.Size == render.Small {
		fig.Bottom = 0.25
		fig.TickFontSize = 4.8
		fig.LegendFontSize = 4.5
	}

	for _, code := range frame.Names() {
		param, err := b.ref.MeteoParameter(code)
		if err != nil {
			return Chart{}, err
		}
		appendLine(&fig, frame, code, fmt.Sprintf("%s / %s", param.Name, station), param.Color)
	}

	floor := scale.MeteoFloor(frame.Min())
	fig.Axis = scale.Resolve(floor, frame.Max(), req.YMax, scale.MeteoLadder)

	return Chart{Figure: fig, Data: frame, Stats: stats}, nil
}
