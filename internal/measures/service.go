package measures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// ErrNoSource is returned when neither a live source nor an offline archive
// can answer a request.
var ErrNoSource = errors.New("no data source configured")

// Service fronts the data sources with the frame cache and the archive.
type Service struct {
	source  Source
	meteo   MeteoSource
	cache   Cache
	archive Archive
	offline bool
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithArchive records every fetched frame in a.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithOffline answers every request from the archive instead of the sources.
func WithOffline(offline bool) Option {
	return func(s *Service) { s.offline = offline }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new Service. Any of cache, source and meteo may be nil.
func NewService(cache Cache, source Source, meteo MeteoSource, opts ...Option) *Service {
	s := &Service{
		source: source,
		meteo:  meteo,
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchMeasures returns the frame for q, from the cache when possible.
func (s *Service) FetchMeasures(ctx context.Context, q Query) (timeseries.Frame, error) {
	if err := q.Validate(); err != nil {
		return timeseries.Frame{}, err
	}

	key := q.Key()
	if s.cache != nil {
		if frame, err := s.cache.Get(key); err == nil {
			s.logger.Debug("measures served from cache", "key", key)
			return frame, nil
		}
	}

	var (
		frame timeseries.Frame
		err   error
	)
	switch {
	case s.offline:
		if s.archive == nil {
			return timeseries.Frame{}, ErrNoSource
		}
		frame, err = s.archive.LoadFrame(ctx, q)
		if err != nil {
			return timeseries.Frame{}, fmt.Errorf("load %s from archive: %w", key, err)
		}
	case s.source == nil:
		return timeseries.Frame{}, ErrNoSource
	default:
		s.logger.Debug("fetching measures", "source", s.source.Name(), "codes", q.Codes,
			"from", q.From.Format("2006-01-02"), "to", q.To.Format("2006-01-02"), "freq", q.Frequency)
		frame, err = s.source.FetchMeasures(ctx, q)
		if err != nil {
			return timeseries.Frame{}, fmt.Errorf("fetch %s from %s: %w", key, s.source.Name(), err)
		}
		if s.archive != nil {
			if err := s.archive.SaveFrame(ctx, q.Frequency, frame); err != nil {
				s.logger.Warn("failed to archive measures", "key", key, "error", err)
			}
		}
	}

	if s.cache != nil {
		s.cache.Save(key, frame)
	}
	return frame, nil
}

// ListMeasures describes the measurement codes matching f.
func (s *Service) ListMeasures(ctx context.Context, f Filter) ([]MeasureInfo, error) {
	switch {
	case s.offline:
		if s.archive == nil {
			return nil, ErrNoSource
		}
		return s.archive.LoadMeasureInfos(ctx, f)
	case s.source == nil:
		return nil, ErrNoSource
	}

	infos, err := s.source.ListMeasures(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list measures from %s: %w", s.source.Name(), err)
	}
	if s.archive != nil {
		if err := s.archive.SaveMeasureInfos(ctx, infos); err != nil {
			s.logger.Warn("failed to archive measure list", "error", err)
		}
	}
	return infos, nil
}

// FetchMeteo returns the meteorological frame for q.
func (s *Service) FetchMeteo(ctx context.Context, q MeteoQuery) (timeseries.Frame, error) {
	if err := q.Validate(); err != nil {
		return timeseries.Frame{}, err
	}

	key := q.Key()
	if s.cache != nil {
		if frame, err := s.cache.Get(key); err == nil {
			s.logger.Debug("meteo served from cache", "key", key)
			return frame, nil
		}
	}

	var (
		frame timeseries.Frame
		err   error
	)
	switch {
	case s.offline:
		if s.archive == nil {
			return timeseries.Frame{}, ErrNoSource
		}
		frame, err = s.archive.LoadMeteo(ctx, q)
		if err != nil {
			return timeseries.Frame{}, fmt.Errorf("load %s from archive: %w", key, err)
		}
	case s.meteo == nil:
		return timeseries.Frame{}, ErrNoSource
	default:
		s.logger.Debug("fetching meteo", "source", s.meteo.Name(), "station", q.Station, "parameters", q.Parameters)
		frame, err = s.meteo.FetchMeteo(ctx, q)
		if err != nil {
			return timeseries.Frame{}, fmt.Errorf("fetch %s from %s: %w", key, s.meteo.Name(), err)
		}
		if s.archive != nil {
			if err := s.archive.SaveMeteo(ctx, q.Station, frame); err != nil {
				s.logger.Warn("failed to archive meteo", "key", key, "error", err)
			}
		}
	}

	if s.cache != nil {
		s.cache.Save(key, frame)
	}
	return frame, nil
}
