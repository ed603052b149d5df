package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleJobs = `
jobs:
  - name: o3-juillet
    kind: measures
    every: 24h
    figure: O3juillet2015
    size: L
    groups:
      - pollutant: O3
        network: OZONE
    from: 2015-07-01
    to: 2015-07-31
    frequency: H
    rolling: 8
    daily_max: true
    thresholds: [VL]
    stats: true
    export: true
  - name: o3-histo
    kind: history
    pollutant: O3
    year: 2015
    size: S
  - name: limoges
    kind: meteo
    station: LIMOGES-BELLEGARDE
    parameters: [T, RR1]
    period: previous-month
    cumulative: true
`

func TestParseJobs(t *testing.T) {
	jobs, err := ParseJobs([]byte(sampleJobs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	j, err := FindJob(jobs, "o3-juillet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Rolling != 8 || !j.DailyMax || j.Groups[0].Network != "OZONE" || j.FigureName() != "O3juillet2015" {
		t.Fatalf("unexpected job %+v", j)
	}
	every, err := j.Interval()
	if err != nil || every != 24*time.Hour {
		t.Fatalf("expected 24h, got %v (%v)", every, err)
	}

	from, to, err := j.Window(time.Now(), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Day() != 1 || to.Day() != 31 || to.Month() != time.July {
		t.Fatalf("unexpected window %v..%v", from, to)
	}

	meteo, _ := FindJob(jobs, "limoges")
	from, to, err = meteo.Window(time.Date(2015, time.July, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	if err != nil || from.Month() != time.June || to.Day() != 30 {
		t.Fatalf("unexpected period window %v..%v (%v)", from, to, err)
	}

	if _, err := FindJob(jobs, "nope"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}

func TestParseJobsValidation(t *testing.T) {
	cases := map[string]string{
		"unknown kind":                   "jobs:\n  - name: a\n    kind: pie\n",
		"measures no groups":             "jobs:\n  - name: a\n    kind: measures\n",
		"history no pollutant":           "jobs:\n  - name: a\n    kind: history\n",
		"group without codes or network": "jobs:\n  - name: a\n    kind: measures\n    groups:\n      - pollutant: O3\n",
		"bad interval":                   "jobs:\n  - name: a\n    kind: history\n    pollutant: O3\n    every: often\n",
	}
	for name, doc := range cases {
		if _, err := ParseJobs([]byte(doc)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	dup := "jobs:\n  - name: a\n    kind: history\n    pollutant: O3\n  - name: a\n    kind: history\n    pollutant: NO2\n"
	if _, err := ParseJobs([]byte(dup)); !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}
}

func TestLoadDefaultsAndInvalidValues(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("HTTP_MAX_RETRIES", "")
	t.Setenv("CACHE_MAX_AGE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPMaxRetries != 0 || cfg.CacheMaxAge != time.Hour || cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	t.Setenv("CACHE_MAX_AGE", "forever")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "invalid CACHE_MAX_AGE") {
		t.Fatalf("expected invalid CACHE_MAX_AGE, got %v", err)
	}
}

func TestJobValidate(t *testing.T) {
	job := Job{Name: "adhoc", Kind: KindMeteo, Parameters: []string{"T"}, From: "2015-07-01"}
	if err := job.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job.Parameters = nil
	if err := job.Validate(); err == nil {
		t.Fatalf("expected error for a meteo job without parameters")
	}

	job = Job{Name: "adhoc", Kind: KindHistory, Pollutant: "NO2", Every: "-1h"}
	if err := job.Validate(); err == nil {
		t.Fatalf("expected error for a negative interval")
	}
}
