package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/measures/providers"
	"github.com/i474232898/airquality-figures/internal/report"
	"github.com/i474232898/airquality-figures/internal/store"
)

// app bundles what the commands share.
type app struct {
	cfg     *config.AppConfig
	service *measures.Service
	builder *report.Builder
	runner  *report.Runner
	archive *store.SQLiteArchive
}

// initializeApp loads the configuration and wires the data sources, the
// cache, the archive and the report builder.
func initializeApp() *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogger(cfg)
	if outDir != "" {
		cfg.FiguresDir = outDir
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	xair := providers.NewXAIRProvider(httpClient, providers.Options{
		BaseURL:    cfg.XAIRBaseURL,
		User:       cfg.XAIRUser,
		Password:   cfg.XAIRPassword,
		MaxRetries: cfg.HTTPMaxRetries,
		Location:   cfg.Location,
	})
	meteo := providers.NewMeteoFranceProvider(httpClient, providers.Options{
		BaseURL:    cfg.MeteoBaseURL,
		APIKey:     cfg.MeteoAPIKey,
		MaxRetries: cfg.HTTPMaxRetries,
		Location:   cfg.Location,
	})

	a := &app{cfg: cfg}
	opts := []measures.Option{
		measures.WithOffline(offline),
		measures.WithLogger(logger),
	}
	if cfg.ArchivePath != "" {
		if a.archive, err = store.OpenSQLiteArchive(cfg.ArchivePath); err != nil {
			fail("failed to open archive", err)
		}
		opts = append(opts, measures.WithArchive(a.archive))
		logger.Debug("archive enabled", "path", cfg.ArchivePath, "offline", offline)
	}

	cache := store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxAge)
	a.service = measures.NewService(cache, xair, meteo, opts...)

	a.builder = report.NewBuilder(a.service, nil,
		report.WithLocation(cfg.Location),
		report.WithHistoryStart(cfg.HistoryStart),
		report.WithLogger(logger),
	)
	a.runner = report.NewRunner(a.builder, cfg.FiguresDir,
		report.WithStatsOutput(os.Stdout),
		report.WithRunnerLogger(logger),
	)
	return a
}

func (a *app) close() {
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			logger.Warn("failed to close archive", "error", err)
		}
	}
}
