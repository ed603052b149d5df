package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/referential"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var (
	// ErrNoData is returned when a pipeline ends without any value to draw.
	ErrNoData = errors.New("no data for the requested period")
	// ErrNoCodes is returned when a group resolves to no measurement code.
	ErrNoCodes = errors.New("no measurement code to fetch")
	// ErrCumulativeNeedsRainfall is returned when cumulative precipitation is
	// requested without the RR1 parameter.
	ErrCumulativeNeedsRainfall = errors.New("cumulative precipitation needs RR1")
	// ErrUnknownThreshold is returned for an unknown overlay name.
	ErrUnknownThreshold = errors.New("unknown threshold")
)

// DataSource is what the pipelines read from. *measures.Service satisfies it.
type DataSource interface {
	FetchMeasures(ctx context.Context, q measures.Query) (timeseries.Frame, error)
	ListMeasures(ctx context.Context, f measures.Filter) ([]measures.MeasureInfo, error)
	FetchMeteo(ctx context.Context, q measures.MeteoQuery) (timeseries.Frame, error)
}

// Chart is the outcome of a pipeline: the figure to draw and the data
// behind it.
type Chart struct {
	Figure render.Figure
	// Data holds the plotted columns, named by measurement code, typology
	// or parameter.
	Data  timeseries.Frame
	Stats Statistics
}

// Builder runs the report pipelines against a data source.
type Builder struct {
	source       DataSource
	ref          *referential.Referential
	loc          *time.Location
	historyStart int
	logger       *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLocation sets the civil time zone of bins and date ranges.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) { b.loc = loc }
}

// WithHistoryStart sets the first year of historical charts for typologies
// without their own start year.
func WithHistoryStart(year int) Option {
	return func(b *Builder) { b.historyStart = year }
}

// WithLogger sets the builder logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a new Builder. A nil referential means the default
// tables.
func NewBuilder(source DataSource, ref *referential.Referential, opts ...Option) *Builder {
	if ref == nil {
		ref = referential.Default()
	}
	b := &Builder{
		source:       source,
		ref:          ref,
		loc:          time.UTC,
		historyStart: 1999,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Referential returns the tables the builder works with.
func (b *Builder) Referential() *referential.Referential {
	return b.ref
}

// Location returns the civil time zone of the builder.
func (b *Builder) Location() *time.Location {
	return b.loc
}

// appendLine adds column name of frame to fig as a line.
func appendLine(fig *render.Figure, frame timeseries.Frame, name, label, color string) {
	col, ok := frame.Column(name)
	if !ok {
		return
	}
	fig.Lines = append(fig.Lines, render.Line{
		Label:   label,
		Color:   color,
		Index:   frame.Index,
		Values:  col.Values,
		Markers: true,
	})
}

// merge aligns the columns of several frames on one index.
func merge(frames ...timeseries.Frame) timeseries.Frame {
	var series []timeseries.Series
	for _, f := range frames {
		for i, c := range f.Columns {
			series = append(series, timeseries.Series{Name: c.Name, Points: f.Points(i)})
		}
	}
	return timeseries.FromSeries(series)
}
