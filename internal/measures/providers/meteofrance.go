package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// MeteoFranceProvider implements measures.MeteoSource for the station
// observation API of the national weather service.
type MeteoFranceProvider struct {
	name    string
	apiKey  string
	baseURL string
	loc     *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewMeteoFranceProvider(client *http.Client, opts Options) *MeteoFranceProvider {
	return &MeteoFranceProvider{
		name:    "meteofrance",
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		loc:     locationOrUTC(opts.Location),
		httpCfg: newHTTPConfig(client, opts.MaxRetries),
		circuit: newCircuitBreaker("meteofrance"),
	}
}

func (p *MeteoFranceProvider) Name() string {
	return p.name
}

func (p *MeteoFranceProvider) FetchMeteo(ctx context.Context, q measures.MeteoQuery) (timeseries.Frame, error) {
	if p.apiKey == "" {
		return timeseries.Frame{}, errors.New("meteofrance api key is not configured")
	}
	if p.baseURL == "" {
		return timeseries.Frame{}, errNoBaseURL
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("parametres", strings.Join(q.Parameters, ","))
		values.Set("debut", q.From.Format(time.DateOnly))
		values.Set("fin", q.To.Format(time.DateOnly))

		u := fmt.Sprintf("%s/stations/%s/mesures?%s", p.baseURL, url.PathEscape(q.Station), values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("apikey", p.apiKey)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return timeseries.Frame{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Station    string                 `json:"station"`
		Parametres map[string][]wirePoint `json:"parametres"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return timeseries.Frame{}, fmt.Errorf("decode meteo response: %w", err)
	}

	series := make([]timeseries.Series, 0, len(q.Parameters))
	for _, param := range q.Parameters {
		raw, ok := payload.Parametres[param]
		if !ok {
			continue
		}
		points, err := toPoints(raw, p.loc)
		if err != nil {
			return timeseries.Frame{}, fmt.Errorf("%s: %w", param, err)
		}
		series = append(series, timeseries.Series{Name: param, Points: points})
	}
	return timeseries.FromSeries(series), nil
}
