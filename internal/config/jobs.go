package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/i474232898/airquality-figures/internal/common"
)

// Report kinds a job can produce.
const (
	KindMeasures = "measures"
	KindHistory  = "history"
	KindMeteo    = "meteo"
)

var (
	ErrUnknownJob   = errors.New("unknown job")
	ErrDuplicateJob = errors.New("duplicate job name")
	ErrNoWindow     = errors.New("job has neither a period nor from/to dates")
)

var validate = validator.New()

// JobGroup is one set of curves of a measures chart: explicit codes or every
// code of a network.
type JobGroup struct {
	Pollutant string   `yaml:"pollutant" validate:"required"`
	Codes     []string `yaml:"codes"`
	Network   string   `yaml:"network" validate:"required_without=Codes"`
}

// Job describes one figure to produce.
type Job struct {
	Name   string `yaml:"name" validate:"required"`
	Kind   string `yaml:"kind" validate:"required,oneof=measures history meteo"`
	Every  string `yaml:"every"`
	Figure string `yaml:"figure"`
	Size   string `yaml:"size" validate:"omitempty,oneof=L S l s"`

	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Period string `yaml:"period" validate:"omitempty,oneof=previous-day previous-month previous-year current-month"`

	// measures
	Groups     []JobGroup `yaml:"groups" validate:"required_if=Kind measures,dive"`
	Frequency  string     `yaml:"frequency"`
	Rolling    int        `yaml:"rolling" validate:"gte=0"`
	ValidRatio float64    `yaml:"valid_ratio" validate:"gte=0,lte=1"`
	DailyMax   bool       `yaml:"daily_max"`
	AnnualMax  bool       `yaml:"annual_max"`

	// history
	Pollutant string `yaml:"pollutant" validate:"required_if=Kind history"`
	Year      int    `yaml:"year" validate:"gte=0"`
	Since     int    `yaml:"since" validate:"gte=0"`

	// meteo
	Station    string   `yaml:"station"`
	Parameters []string `yaml:"parameters" validate:"required_if=Kind meteo"`
	Cumulative bool     `yaml:"cumulative"`

	Thresholds    []string `yaml:"thresholds"`
	YMax          float64  `yaml:"ymax" validate:"gte=0"`
	MarkerSize    float64  `yaml:"marker_size" validate:"gte=0"`
	LegendColumns int      `yaml:"legend_columns" validate:"gte=0"`
	Stats         bool     `yaml:"stats"`
	Export        bool     `yaml:"export"`
}

type jobsFile struct {
	Jobs []Job `yaml:"jobs" validate:"dive"`
}

// LoadJobs reads and validates the jobs file at path.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs decodes and validates a YAML jobs document.
func ParseJobs(data []byte) ([]Job, error) {
	var f jobsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid jobs: %w", err)
	}

	seen := make(map[string]bool, len(f.Jobs))
	for _, j := range f.Jobs {
		if seen[j.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, j.Name)
		}
		seen[j.Name] = true
		if _, err := j.Interval(); err != nil {
			return nil, err
		}
	}
	return f.Jobs, nil
}

// FindJob returns the job called name.
func FindJob(jobs []Job, name string) (Job, error) {
	for _, j := range jobs {
		if j.Name == name {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

// Validate checks a job built outside of a jobs file.
func (j Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("invalid job %s: %w", j.Name, err)
	}
	_, err := j.Interval()
	return err
}

// Interval returns how often the job is scheduled; zero means never.
func (j Job) Interval() (time.Duration, error) {
	if j.Every == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(j.Every)
	if err != nil {
		return 0, fmt.Errorf("invalid every for job %s: %w", j.Name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid every for job %s: must be positive", j.Name)
	}
	return d, nil
}

// Window resolves the inclusive day range of the job. A relative period wins
// over fixed dates; a missing end date means the start day only.
func (j Job) Window(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if j.Period == "" && j.From == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrNoWindow, j.Name)
	}
	return common.Window(j.Period, j.From, j.To, now, loc)
}

// FigureName is the output file stem of the job.
func (j Job) FigureName() string {
	if j.Figure != "" {
		return j.Figure
	}
	return j.Name
}
