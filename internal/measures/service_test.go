package measures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

type fakeSource struct {
	calls int
	err   error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchMeasures(ctx context.Context, q Query) (timeseries.Frame, error) {
	f.calls++
	if f.err != nil {
		return timeseries.Frame{}, f.err
	}
	return timeseries.FromSeries([]timeseries.Series{{Name: q.Codes[0], Points: []timeseries.Point{{Time: q.From, Value: 1}}}}), nil
}

func (f *fakeSource) ListMeasures(ctx context.Context, filter Filter) ([]MeasureInfo, error) {
	return []MeasureInfo{{Code: "O3_GAR", Station: "GARROS"}}, nil
}

type mapCache map[string]timeseries.Frame

func (m mapCache) Save(key string, frame timeseries.Frame) { m[key] = frame }

func (m mapCache) Get(key string) (timeseries.Frame, error) {
	f, ok := m[key]
	if !ok {
		return timeseries.Frame{}, errors.New("miss")
	}
	return f, nil
}

func query() Query {
	day := time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC)
	return Query{Codes: []string{"O3_GAR"}, From: day, To: day, Frequency: timeseries.Hourly}
}

func TestFetchMeasuresUsesCache(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(mapCache{}, src, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.FetchMeasures(context.Background(), query()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected the second fetch to hit the cache, got %d source calls", src.calls)
	}
}

func TestFetchMeasuresSurfacesSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(nil, &fakeSource{err: boom}, nil)

	_, err := svc.FetchMeasures(context.Background(), query())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestFetchMeasuresValidatesQuery(t *testing.T) {
	svc := NewService(nil, &fakeSource{}, nil)

	q := query()
	q.To = q.From.AddDate(0, 0, -1)
	if _, err := svc.FetchMeasures(context.Background(), q); !IsInvalidQuery(err) {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestServiceWithoutSource(t *testing.T) {
	svc := NewService(nil, nil, nil)
	if _, err := svc.FetchMeasures(context.Background(), query()); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}

	offline := NewService(nil, &fakeSource{}, nil, WithOffline(true))
	if _, err := offline.ListMeasures(context.Background(), Filter{}); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource offline without archive, got %v", err)
	}
	if _, err := offline.FetchMeteo(context.Background(), MeteoQuery{Station: "X", Parameters: []string{"T"}}); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource for meteo offline without archive, got %v", err)
	}
}
