package report

import (
	"context"
	"fmt"
	"math"

	"github.com/i474232898/airquality-figures/internal/common"
	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/referential"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/scale"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// HistoryRequest describes a multi-year chart of one pollutant, one curve
// per station typology.
type HistoryRequest struct {
	Pollutant string
	// Year is the last year drawn.
	Year int
	// Since is the first year for typologies without their own start year;
	// zero means the builder default.
	Since int

	Thresholds    Selection
	Size          render.Size
	MarkerSize    float64
	LegendColumns int
	YMax          float64
}

// History builds the annual chart of a pollutant per station typology.
func (b *Builder) History(ctx context.Context, req HistoryRequest) (Chart, error) {
	p, err := b.ref.Pollutant(req.Pollutant)
	if err != nil {
		return Chart{}, err
	}
	if len(p.Groups) == 0 {
		return Chart{}, fmt.Errorf("%w: %s has no historical group", ErrNoCodes, p.Code)
	}
	since := req.Since
	if since == 0 {
		since = b.historyStart
	}

	size := req.Size
	if size == "" {
		size = render.Small
	}
	fig := render.Figure{
		Size:          size,
		LegendColumns: req.LegendColumns,
		MarkerSize:    req.MarkerSize,
		Unit:          p.Unit,
		XLayout:       timeseries.Annual.Layout(),
	}

	var frames []timeseries.Frame
	for _, group := range p.Groups {
		typo, err := b.ref.ClassifyGroup(group)
		if err != nil {
			return Chart{}, err
		}
		start, err := b.ref.HistoryStart(typo, p.Code, since)
		if err != nil {
			return Chart{}, err
		}
		label := fmt.Sprintf("%s - %s", p.Display, typo.Label)

		frame, err := b.historyGroup(ctx, p, group, typo, start, req.Year, label)
		if err != nil {
			return Chart{}, err
		}
		appendLine(&fig, frame, label, label, typo.Color)
		frames = append(frames, frame)
	}

	data := merge(frames...)
	if data.Empty() || math.IsNaN(data.Max()) {
		return Chart{}, ErrNoData
	}

	fig.Axis = scale.Resolve(0, data.Max(), req.YMax, scale.PollutantLadder)
	lines, err := thresholdLines(b.ref, req.Thresholds, p, fig.Axis, false)
	if err != nil {
		return Chart{}, err
	}
	fig.Thresholds = lines

	return Chart{Figure: fig, Data: data, Stats: Describe(data)}, nil
}

// historyGroup returns the yearly series of one typology group, compressed
// into a single column called label.
func (b *Builder) historyGroup(ctx context.Context, p referential.Pollutant, group string, typo referential.Typology, start, year int, label string) (timeseries.Frame, error) {
	codes, err := b.ref.Group(group)
	if err != nil {
		return timeseries.Frame{}, err
	}

	// PM10 measured before the semi-volatile correction lives in separate
	// codes; both periods are joined.
	if p.Code == "PM10" && start < b.ref.CorrectedSince {
		corrected, err := b.annual(ctx, p, codes, b.ref.CorrectedSince, year, label)
		if err != nil {
			return timeseries.Frame{}, err
		}
		legacy, ok := b.ref.NonCorrectedGroup(typo)
		if !ok {
			b.logger.Warn("no uncorrected PM10 group, history starts at correction", "typology", typo.ID)
			return corrected, nil
		}
		before, err := b.annual(ctx, p, legacy, start, b.ref.CorrectedSince-1, label)
		if err != nil {
			return timeseries.Frame{}, err
		}
		return timeseries.Concat(before, corrected)
	}

	return b.annual(ctx, p, codes, start, year, label)
}

// annual fetches codes over whole years and reduces them to one value per
// year: the maximum for ozone, the mean otherwise.
func (b *Builder) annual(ctx context.Context, p referential.Pollutant, codes []string, from, to int, label string) (timeseries.Frame, error) {
	first, _ := common.YearBounds(from, b.loc)
	_, last := common.YearBounds(to, b.loc)

	frame, err := b.source.FetchMeasures(ctx, measures.Query{
		Codes:     codes,
		From:      first,
		To:        last,
		Frequency: p.HistoryFrequency,
	})
	if err != nil {
		return timeseries.Frame{}, err
	}

	if p.Code == "O3" {
		frame = timeseries.Resample(frame, timeseries.Annual, timeseries.Max, b.loc)
		return timeseries.RowMax(frame, label), nil
	}
	frame = timeseries.Resample(frame, timeseries.Annual, timeseries.Mean, b.loc)
	return timeseries.RowMean(frame, label), nil
}
