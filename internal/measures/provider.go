package measures

import (
	"context"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// Source abstracts the measurement database. FetchMeasures returns one column
// per code, named after the code.
type Source interface {
	Name() string
	FetchMeasures(ctx context.Context, q Query) (timeseries.Frame, error)
	ListMeasures(ctx context.Context, f Filter) ([]MeasureInfo, error)
}

// MeteoSource abstracts the meteorological provider. FetchMeteo returns one
// column per parameter, named after the parameter.
type MeteoSource interface {
	Name() string
	FetchMeteo(ctx context.Context, q MeteoQuery) (timeseries.Frame, error)
}

// Cache is the contract of the in-memory frame cache.
type Cache interface {
	Save(key string, frame timeseries.Frame)
	Get(key string) (timeseries.Frame, error)
}

// Archive persists fetched data so figures can be rebuilt offline.
type Archive interface {
	SaveFrame(ctx context.Context, freq timeseries.Frequency, frame timeseries.Frame) error
	LoadFrame(ctx context.Context, q Query) (timeseries.Frame, error)
	SaveMeasureInfos(ctx context.Context, infos []MeasureInfo) error
	LoadMeasureInfos(ctx context.Context, f Filter) ([]MeasureInfo, error)
	SaveMeteo(ctx context.Context, station string, frame timeseries.Frame) error
	LoadMeteo(ctx context.Context, q MeteoQuery) (timeseries.Frame, error)
}
