package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/report"
)

type fakeRunner struct {
	ran chan string
}

func (f *fakeRunner) Run(ctx context.Context, job config.Job) (report.Output, error) {
	f.ran <- job.Name
	return report.Output{Job: job.Name}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRunsPeriodicJobsOnly(t *testing.T) {
	runner := &fakeRunner{ran: make(chan string, 4)}
	jobs := []config.Job{
		{Name: "daily-o3", Every: "1h"},
		{Name: "once"},
	}

	s := New(jobs, runner, quietLogger())
	n, err := s.Start()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	if n != 1 {
		t.Fatalf("expected 1 scheduled job, got %d", n)
	}
	if s.Len() != 1 {
		t.Fatalf("expected scheduler to hold 1 job, got %d", s.Len())
	}

	select {
	case name := <-runner.ran:
		if name != "daily-o3" {
			t.Fatalf("expected daily-o3 to run, got %s", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected the periodic job to run on start")
	}
}

func TestSchedulerRejectsInvalidInterval(t *testing.T) {
	runner := &fakeRunner{ran: make(chan string, 1)}
	s := New([]config.Job{{Name: "bad", Every: "soon"}}, runner, quietLogger())
	defer s.Stop()

	if _, err := s.Start(); err == nil {
		t.Fatalf("expected error for invalid interval")
	}
}

func TestSchedulerWithoutPeriodicJobs(t *testing.T) {
	runner := &fakeRunner{ran: make(chan string, 1)}
	s := New([]config.Job{{Name: "once"}}, runner, quietLogger())
	defer s.Stop()

	n, err := s.Start()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no scheduled job, got %d", n)
	}
}
