package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/referential"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/scale"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// DefaultValidRatio is the share of valid samples a rolling window needs.
const DefaultValidRatio = 0.75

// Group is one set of curves of a measures chart. Codes win over Network.
type Group struct {
	Pollutant string   `json:"pollutant"`
	Codes     []string `json:"codes,omitempty"`
	Network   string   `json:"network,omitempty"`
}

// MeasuresRequest describes a chart of raw or aggregated measurements.
type MeasuresRequest struct {
	Groups []Group
	From   time.Time
	To     time.Time
	// Frequency is the plotted frequency; empty keeps the measure frequency.
	Frequency timeseries.Frequency

	// Rolling is the rolling mean window in samples; 0 disables it.
	Rolling    int
	ValidRatio float64
	DailyMax   bool
	AnnualMax  bool

	Thresholds    Selection
	Size          render.Size
	MarkerSize    float64
	LegendColumns int
	// YMax overrides the axis ceiling when positive.
	YMax float64
}

// Measures builds a chart of measurements per station.
func (b *Builder) Measures(ctx context.Context, req MeasuresRequest) (Chart, error) {
	if len(req.Groups) == 0 {
		return Chart{}, fmt.Errorf("%w: no group", ErrNoCodes)
	}

	fig := render.Figure{
		Size:          req.Size,
		LegendColumns: req.LegendColumns,
		MarkerSize:    req.MarkerSize,
	}
	var (
		frames    []timeseries.Frame
		pollutant referential.Pollutant
		finalFreq timeseries.Frequency
		color     int
	)
	for _, g := range req.Groups {
		p, err := b.ref.Pollutant(g.Pollutant)
		if err != nil {
			return Chart{}, err
		}
		pollutant = p

		frame, freq, err := b.measuresGroup(ctx, g, p, req)
		if err != nil {
			return Chart{}, err
		}
		finalFreq = freq

		stations, err := b.stationNames(ctx, frame.Names())
		if err != nil {
			return Chart{}, err
		}
		for _, code := range frame.Names() {
			label := fmt.Sprintf("%s - %s", p.Display, stations[code])
			appendLine(&fig, frame, code, label, b.ref.Color(color))
			color++
		}
		frames = append(frames, frame)
	}

	data := merge(frames...)
	if data.Empty() || math.IsNaN(data.Max()) {
		return Chart{}, ErrNoData
	}

	fig.Axis = scale.Resolve(0, data.Max(), req.YMax, scale.PollutantLadder)
	fig.Unit = pollutant.Unit
	fig.XLayout = finalFreq.Layout()

	lines, err := thresholdLines(b.ref, req.Thresholds, pollutant, fig.Axis, true)
	if err != nil {
		return Chart{}, err
	}
	fig.Thresholds = lines

	return Chart{Figure: fig, Data: data, Stats: Describe(data)}, nil
}

// measuresGroup fetches and aggregates one group. It returns the frame and
// the frequency it ends up at.
func (b *Builder) measuresGroup(ctx context.Context, g Group, p referential.Pollutant, req MeasuresRequest) (timeseries.Frame, timeseries.Frequency, error) {
	codes := g.Codes
	if len(codes) == 0 {
		if g.Network == "" {
			return timeseries.Frame{}, "", fmt.Errorf("%w: group %s has neither codes nor network", ErrNoCodes, g.Pollutant)
		}
		infos, err := b.source.ListMeasures(ctx, measures.Filter{Network: g.Network})
		if err != nil {
			return timeseries.Frame{}, "", err
		}
		for _, info := range infos {
			codes = append(codes, info.Code)
		}
		if len(codes) == 0 {
			return timeseries.Frame{}, "", fmt.Errorf("%w: network %s", ErrNoCodes, g.Network)
		}
	}

	frame, err := b.source.FetchMeasures(ctx, measures.Query{
		Codes:     codes,
		From:      req.From,
		To:        req.To,
		Frequency: p.Frequency,
	})
	if err != nil {
		return timeseries.Frame{}, "", err
	}

	freq := req.Frequency
	if freq == "" {
		freq = p.Frequency
	}
	frame = timeseries.Resample(frame, freq, timeseries.Mean, b.loc)

	if req.Rolling > 0 {
		ratio := req.ValidRatio
		if ratio <= 0 {
			ratio = DefaultValidRatio
		}
		frame, err = timeseries.RollingMean(frame, req.Rolling, timeseries.MinValid(req.Rolling, ratio))
		if err != nil {
			return timeseries.Frame{}, "", err
		}
	}
	if req.DailyMax {
		freq = timeseries.Daily
		frame = timeseries.Resample(frame, freq, timeseries.Max, b.loc)
	}
	if req.AnnualMax {
		freq = timeseries.Annual
		frame = timeseries.Resample(frame, freq, timeseries.Max, b.loc)
	}

	b.logger.Debug("measures group ready", "pollutant", p.Code, "codes", codes, "rows", frame.Len(), "freq", freq)
	return timeseries.ClipNegative(frame), freq, nil
}

// stationNames maps measurement codes to station display names.
func (b *Builder) stationNames(ctx context.Context, codes []string) (map[string]string, error) {
	infos, err := b.source.ListMeasures(ctx, measures.Filter{Codes: codes})
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]string, len(infos))
	for _, info := range infos {
		byCode[info.Code] = info.Station
	}

	names := make(map[string]string, len(codes))
	for _, code := range codes {
		station, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("%w: no station for %s", referential.ErrUnknownStation, code)
		}
		name, err := b.ref.StationName(station)
		if err != nil {
			return nil, err
		}
		names[code] = name
	}
	return names, nil
}
