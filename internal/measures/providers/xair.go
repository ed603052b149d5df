package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// XAIRProvider implements measures.Source over the HTTP gateway of the XAIR
// measurement database.
type XAIRProvider struct {
	name     string
	baseURL  string
	user     string
	password string
	loc      *time.Location
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewXAIRProvider(client *http.Client, opts Options) *XAIRProvider {
	return &XAIRProvider{
		name:     "xair",
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		user:     opts.User,
		password: opts.Password,
		loc:      locationOrUTC(opts.Location),
		httpCfg:  newHTTPConfig(client, opts.MaxRetries),
		circuit:  newCircuitBreaker("xair"),
	}
}

func (p *XAIRProvider) Name() string {
	return p.name
}

func (p *XAIRProvider) FetchMeasures(ctx context.Context, q measures.Query) (timeseries.Frame, error) {
	values := url.Values{}
	values.Set("codes", strings.Join(q.Codes, ","))
	values.Set("debut", q.From.Format(time.DateOnly))
	values.Set("fin", q.To.Format(time.DateOnly))
	values.Set("freq", string(q.Frequency))

	var payload struct {
		Mesures []struct {
			Code   string      `json:"code"`
			Points []wirePoint `json:"points"`
		} `json:"mesures"`
	}
	if err := p.get(ctx, "/mesures", values, &payload); err != nil {
		return timeseries.Frame{}, err
	}

	series := make([]timeseries.Series, 0, len(payload.Mesures))
	for _, code := range q.Codes {
		for _, m := range payload.Mesures {
			if m.Code != code {
				continue
			}
			points, err := toPoints(m.Points, p.loc)
			if err != nil {
				return timeseries.Frame{}, fmt.Errorf("%s: %w", code, err)
			}
			series = append(series, timeseries.Series{Name: code, Points: points})
		}
	}
	return timeseries.FromSeries(series), nil
}

func (p *XAIRProvider) ListMeasures(ctx context.Context, f measures.Filter) ([]measures.MeasureInfo, error) {
	values := url.Values{}
	if f.Network != "" {
		values.Set("reseau", f.Network)
	}
	if len(f.Codes) > 0 {
		values.Set("mesure", strings.Join(f.Codes, ","))
	}

	var payload struct {
		Mesures []struct {
			Mesure   string `json:"mesure"`
			Station  string `json:"station"`
			Polluant string `json:"polluant"`
			Reseau   string `json:"reseau"`
		} `json:"mesures"`
	}
	if err := p.get(ctx, "/mesures/liste", values, &payload); err != nil {
		return nil, err
	}

	infos := make([]measures.MeasureInfo, 0, len(payload.Mesures))
	for _, m := range payload.Mesures {
		infos = append(infos, measures.MeasureInfo{
			Code:      m.Mesure,
			Station:   m.Station,
			Pollutant: m.Polluant,
			Network:   m.Reseau,
		})
	}
	return infos, nil
}

func (p *XAIRProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	if p.baseURL == "" {
		return errNoBaseURL
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		if p.user != "" {
			req.SetBasicAuth(p.user, p.password)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
