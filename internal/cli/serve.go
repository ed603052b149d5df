package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/airquality-figures/internal/api/http"
	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/scheduler"
)

var serveOpts struct {
	port     string
	schedule bool
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve figures over HTTP and run the scheduled jobs",
	Long: `Start the HTTP API and, unless --schedule=false, run the jobs of the
jobs file that declare an interval.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	a := initializeApp()
	defer a.close()

	if serveOpts.schedule {
		jobs, err := config.LoadJobs(jobsPath(a.cfg))
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Info("no jobs file; scheduler disabled", "path", jobsPath(a.cfg))
		case err != nil:
			a.close()
			fail("failed to load jobs", err)
		default:
			sched := scheduler.New(jobs, a.runner, logger)
			if _, err := sched.Start(); err != nil {
				a.close()
				fail("failed to start scheduler", err)
			}
			defer sched.Stop()
		}
	}

	server := httpapi.NewApp(true)
	httpapi.RegisterRoutes(server, a.service, a.builder)

	port := serveOpts.port
	if port == "" {
		port = a.cfg.Port
	}

	go func() {
		logger.Info("listening", "port", port, "offline", offline)
		if err := server.Listen(":" + port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

func jobsPath(cfg *config.AppConfig) string {
	if jobsFile != "" {
		return jobsFile
	}
	return cfg.JobsFile
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveOpts.port, "port", "", "Listen port (defaults to PORT)")
	f.BoolVar(&serveOpts.schedule, "schedule", true, "Run the jobs that declare an interval")
	f.StringVar(&jobsFile, "jobs", "", "Jobs file (defaults to JOBS_FILE)")
}
