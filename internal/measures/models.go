package measures

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var errInvalidQuery = errors.New("invalid query")

// Query selects measurement codes over an inclusive date range at the
// frequency the database should return.
type Query struct {
	Codes     []string             `json:"codes"`
	From      time.Time            `json:"from"`
	To        time.Time            `json:"to"`
	Frequency timeseries.Frequency `json:"frequency"`
}

// Key returns a canonical string key for caching this query.
func (q Query) Key() string {
	return fmt.Sprintf("measures:%s:%s:%s:%s",
		strings.Join(q.Codes, ","), q.Frequency, q.From.Format(time.DateOnly), q.To.Format(time.DateOnly))
}

// Validate checks the query is complete.
func (q Query) Validate() error {
	switch {
	case len(q.Codes) == 0:
		return fmt.Errorf("%w: no measurement code", errInvalidQuery)
	case q.Frequency == "":
		return fmt.Errorf("%w: no frequency", errInvalidQuery)
	case q.To.Before(q.From):
		return fmt.Errorf("%w: end %s before start %s", errInvalidQuery, q.To.Format(time.DateOnly), q.From.Format(time.DateOnly))
	}
	return nil
}

// Filter selects entries of the measurement list, by network or by code.
type Filter struct {
	Network string   `json:"network,omitempty"`
	Codes   []string `json:"codes,omitempty"`
}

// MeasureInfo describes a measurement code: the station it is taken at and
// the pollutant it measures.
type MeasureInfo struct {
	Code      string `json:"code"`
	Station   string `json:"station"`
	Pollutant string `json:"pollutant"`
	Network   string `json:"network,omitempty"`
}

// MeteoQuery selects meteorological parameters of one station.
type MeteoQuery struct {
	Station    string    `json:"station"`
	Parameters []string  `json:"parameters"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
}

// Key returns a canonical string key for caching this query.
func (q MeteoQuery) Key() string {
	return fmt.Sprintf("meteo:%s:%s:%s:%s",
		q.Station, strings.Join(q.Parameters, ","), q.From.Format(time.DateOnly), q.To.Format(time.DateOnly))
}

// Validate checks the query is complete.
func (q MeteoQuery) Validate() error {
	switch {
	case q.Station == "":
		return fmt.Errorf("%w: no station", errInvalidQuery)
	case len(q.Parameters) == 0:
		return fmt.Errorf("%w: no parameter", errInvalidQuery)
	case q.To.Before(q.From):
		return fmt.Errorf("%w: end %s before start %s", errInvalidQuery, q.To.Format(time.DateOnly), q.From.Format(time.DateOnly))
	}
	return nil
}

// IsInvalidQuery reports whether err comes from query validation.
func IsInvalidQuery(err error) bool {
	return errors.Is(err, errInvalidQuery)
}
