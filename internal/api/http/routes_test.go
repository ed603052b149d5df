package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/report"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type fakeSource struct {
	err error
}

func (f *fakeSource) FetchMeasures(ctx context.Context, q measures.Query) (timeseries.Frame, error) {
	if f.err != nil {
		return timeseries.Frame{}, f.err
	}
	var series []timeseries.Series
	for _, code := range q.Codes {
		var pts []timeseries.Point
		for t := q.From; t.Before(q.To.AddDate(0, 0, 1)); t = t.Add(time.Hour) {
			pts = append(pts, timeseries.Point{Time: t, Value: 40})
		}
		series = append(series, timeseries.Series{Name: code, Points: pts})
	}
	return timeseries.FromSeries(series), nil
}

func (f *fakeSource) ListMeasures(ctx context.Context, filter measures.Filter) ([]measures.MeasureInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []measures.MeasureInfo{{Code: "O3_GAR", Station: "GARROS", Pollutant: "O3", Network: "OZONE"}}, nil
}

func (f *fakeSource) FetchMeteo(ctx context.Context, q measures.MeteoQuery) (timeseries.Frame, error) {
	if f.err != nil {
		return timeseries.Frame{}, f.err
	}
	var series []timeseries.Series
	for _, p := range q.Parameters {
		var pts []timeseries.Point
		for i := 0; i < 24; i++ {
			pts = append(pts, timeseries.Point{Time: q.From.Add(time.Duration(i) * time.Hour), Value: float64(i)})
		}
		series = append(series, timeseries.Series{Name: p, Points: pts})
	}
	return timeseries.FromSeries(series), nil
}

func newTestApp(src *fakeSource) *fiber.App {
	app := NewApp(false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	builder := report.NewBuilder(src, nil, report.WithLocation(time.UTC), report.WithLogger(logger))
	RegisterRoutes(app, src, builder)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error reading body: %v", err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeSource{})
	resp, _ := get(t, app, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestMeasuresFigureReturnsPNG(t *testing.T) {
	app := newTestApp(&fakeSource{})

	resp, body := get(t, app, "/api/v1/figures/measures?pollutant=O3&codes=O3_GAR&from=2015-07-01&to=2015-07-02&thresholds=VL,OMS")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(body, pngMagic) {
		t.Fatalf("expected a PNG body")
	}
}

func TestMeasuresFigureByNetwork(t *testing.T) {
	app := newTestApp(&fakeSource{})

	resp, body := get(t, app, "/api/v1/figures/measures?pollutant=O3&network=OZONE&from=2015-07-01&size=S")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}
}

func TestMeasuresFigureRejectsInvalidQueries(t *testing.T) {
	app := newTestApp(&fakeSource{})

	for _, target := range []string{
		"/api/v1/figures/measures?codes=O3_GAR&from=2015-07-01",
		"/api/v1/figures/measures?pollutant=O3&from=2015-07-01",
		"/api/v1/figures/measures?pollutant=O3&codes=O3_GAR",
		"/api/v1/figures/measures?pollutant=O3&codes=O3_GAR&from=2015-07-01&size=XL",
		"/api/v1/figures/measures?pollutant=O3&codes=O3_GAR&from=2015-07-01&thresholds=nope",
		"/api/v1/figures/measures?pollutant=XX&codes=O3_GAR&from=2015-07-01",
		"/api/v1/figures/measures?pollutant=O3&codes=O3_GAR&from=2015-07-01&rolling=-1",
	} {
		resp, body := get(t, app, target)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status %d for %s, got %d", http.StatusBadRequest, target, resp.StatusCode)
		}
		var payload struct {
			Error   bool   `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("expected JSON error body for %s: %v", target, err)
		}
		if !payload.Error || payload.Message == "" {
			t.Fatalf("expected error payload for %s, got %s", target, body)
		}
	}
}

func TestUpstreamErrorIsBadGateway(t *testing.T) {
	app := newTestApp(&fakeSource{err: errors.New("connection refused")})

	resp, _ := get(t, app, "/api/v1/figures/measures?pollutant=O3&codes=O3_GAR&from=2015-07-01")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}
}

func TestMeteoFigureReturnsPNG(t *testing.T) {
	app := newTestApp(&fakeSource{})

	resp, body := get(t, app, "/api/v1/figures/meteo?params=T,U&from=2015-07-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}
	if !bytes.HasPrefix(body, pngMagic) {
		t.Fatalf("expected a PNG body")
	}

	resp, _ = get(t, app, "/api/v1/figures/meteo?params=T&from=2015-07-01&cumul=true")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d without RR1, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSeriesReturnsFrame(t *testing.T) {
	app := newTestApp(&fakeSource{})

	resp, body := get(t, app, "/api/v1/series?codes=O3_GAR,O3_MER&from=2015-07-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}

	var payload struct {
		Frequency string `json:"frequency"`
		Frame     struct {
			Index   []time.Time `json:"index"`
			Columns []struct {
				Name   string     `json:"name"`
				Values []*float64 `json:"values"`
			} `json:"columns"`
		} `json:"frame"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unexpected error decoding body: %v", err)
	}
	if payload.Frequency != "H" {
		t.Fatalf("expected hourly frequency, got %s", payload.Frequency)
	}
	if len(payload.Frame.Index) != 24 || len(payload.Frame.Columns) != 2 {
		t.Fatalf("expected 24 rows and 2 columns, got %d and %d", len(payload.Frame.Index), len(payload.Frame.Columns))
	}
}

func TestReferentialCheck(t *testing.T) {
	app := newTestApp(&fakeSource{})

	resp, body := get(t, app, "/api/v1/referential/check")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var payload struct {
		Consistent bool `json:"consistent"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unexpected error decoding body: %v", err)
	}
	if !payload.Consistent {
		t.Fatalf("expected the default referential to be consistent: %s", body)
	}
}

func TestStationsRequiresFilter(t *testing.T) {
	app := newTestApp(&fakeSource{})

	resp, _ := get(t, app, "/api/v1/stations")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	resp, _ = get(t, app, "/api/v1/stations?network=OZONE")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
