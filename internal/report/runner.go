package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/export"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// Output lists what a job run produced.
type Output struct {
	RunID    string     `json:"runId"`
	Job      string     `json:"job"`
	Figure   string     `json:"figure"`
	Workbook string     `json:"workbook,omitempty"`
	Stats    Statistics `json:"-"`
}

// Runner turns configured jobs into files.
type Runner struct {
	builder *Builder
	dir     string
	stats   io.Writer
	now     func() time.Time
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStatsOutput prints the statistics of jobs asking for them to w.
func WithStatsOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.stats = w }
}

// WithRunnerLogger sets the runner logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner writing figures into dir.
func NewRunner(b *Builder, dir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		builder: b,
		dir:     dir,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds the chart of job and writes its files.
func (r *Runner) Run(ctx context.Context, job config.Job) (Output, error) {
	out := Output{RunID: uuid.NewString(), Job: job.Name}
	logger := r.logger.With("run_id", out.RunID, "job", job.Name)
	started := r.now()

	chart, err := r.Chart(ctx, job)
	if err != nil {
		return out, fmt.Errorf("job %s: %w", job.Name, err)
	}
	out.Stats = chart.Stats

	name := job.FigureName()
	out.Figure = filepath.Join(r.dir, name+".png")
	if err := render.SaveFile(chart.Figure, out.Figure); err != nil {
		return out, fmt.Errorf("job %s: %w", job.Name, err)
	}
	logger.Info("figure saved", "path", out.Figure, "lines", len(chart.Figure.Lines), "thresholds", len(chart.Figure.Thresholds))

	if job.Export {
		out.Workbook = filepath.Join(r.dir, name+".xlsx")
		if err := export.WriteXLSX(out.Workbook, job.Kind, chart.Data, r.builder.Location()); err != nil {
			return out, fmt.Errorf("job %s: %w", job.Name, err)
		}
		logger.Info("workbook saved", "path", out.Workbook)
	}

	if job.Stats {
		for _, c := range chart.Stats.Columns {
			logger.Info("statistics", "series", c.Name, "mean", c.Mean, "max", c.Max, "min", c.Min)
		}
		if chart.Stats.HasRainfall {
			logger.Info("statistics", "rainfall_total", chart.Stats.Rainfall)
		}
		if r.stats != nil {
			if err := chart.Stats.Write(r.stats); err != nil {
				return out, err
			}
		}
	}

	logger.Debug("job done", "elapsed", r.now().Sub(started))
	return out, nil
}

// Chart builds the chart of job without writing anything.
func (r *Runner) Chart(ctx context.Context, job config.Job) (Chart, error) {
	size, err := render.ParseSize(job.Size)
	if err != nil {
		return Chart{}, err
	}
	sel, err := ParseSelection(job.Thresholds)
	if err != nil {
		return Chart{}, err
	}
	loc := r.builder.Location()

	switch job.Kind {
	case config.KindMeasures:
		from, to, err := job.Window(r.now(), loc)
		if err != nil {
			return Chart{}, err
		}
		var freq timeseries.Frequency
		if job.Frequency != "" {
			if freq, err = timeseries.ParseFrequency(job.Frequency); err != nil {
				return Chart{}, err
			}
		}
		groups := make([]Group, len(job.Groups))
		for i, g := range job.Groups {
			groups[i] = Group{Pollutant: g.Pollutant, Codes: g.Codes, Network: g.Network}
		}
		return r.builder.Measures(ctx, MeasuresRequest{
			Groups:        groups,
			From:          from,
			To:            to,
			Frequency:     freq,
			Rolling:       job.Rolling,
			ValidRatio:    job.ValidRatio,
			DailyMax:      job.DailyMax,
			AnnualMax:     job.AnnualMax,
			Thresholds:    sel,
			Size:          size,
			MarkerSize:    job.MarkerSize,
			LegendColumns: job.LegendColumns,
			YMax:          job.YMax,
		})

	case config.KindHistory:
		year := job.Year
		if year == 0 {
			year = r.now().In(loc).Year() - 1
		}
		if job.Size == "" {
			size = render.Small
		}
		return r.builder.History(ctx, HistoryRequest{
			Pollutant:     job.Pollutant,
			Year:          year,
			Since:         job.Since,
			Thresholds:    sel,
			Size:          size,
			MarkerSize:    job.MarkerSize,
			LegendColumns: job.LegendColumns,
			YMax:          job.YMax,
		})

	case config.KindMeteo:
		from, to, err := job.Window(r.now(), loc)
		if err != nil {
			return Chart{}, err
		}
		return r.builder.Meteo(ctx, MeteoRequest{
			Station:       job.Station,
			Parameters:    job.Parameters,
			From:          from,
			To:            to,
			Cumulative:    job.Cumulative,
			Size:          size,
			MarkerSize:    job.MarkerSize,
			LegendColumns: job.LegendColumns,
			YMax:          job.YMax,
		})
	}
	return Chart{}, fmt.Errorf("unknown job kind %q", job.Kind)
}
