package referential

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var (
	ErrUnknownPollutant = errors.New("unknown pollutant")
	ErrUnknownGroup     = errors.New("unknown code group")
	ErrUnclassified     = errors.New("code group belongs to no typology")
	ErrNoHistory        = errors.New("no historical start year")
	ErrUnknownStation   = errors.New("unknown station")
	ErrUnknownParameter = errors.New("unknown meteorological parameter")
)

// TypologyID identifies a station typology.
type TypologyID string

const (
	Urban      TypologyID = "urban"
	PeriUrban  TypologyID = "peri-urban"
	Traffic    TypologyID = "traffic"
	Industrial TypologyID = "industrial"
	Rural      TypologyID = "rural"
)

// Typology groups stations by surrounding land use.
type Typology struct {
	ID     TypologyID `json:"id"`
	Label  string     `json:"label"`
	Color  string     `json:"color"`
	Groups []string   `json:"groups"`

	// History is the first year of the historical series per pollutant.
	// Zero means the caller supplied default.
	History map[string]int `json:"history"`

	// NonCorrected names the group holding PM10 measured without the
	// semi-volatile correction, used for years before CorrectedSince.
	NonCorrected string `json:"nonCorrected,omitempty"`
}

// Pollutant describes a measured family.
type Pollutant struct {
	Code             string               `json:"code"`
	Display          string               `json:"display"`
	Unit             string               `json:"unit"`
	Frequency        timeseries.Frequency `json:"frequency"`
	HistoryFrequency timeseries.Frequency `json:"historyFrequency"`
	// Groups are the code groups of the historical chart, in drawing order.
	Groups []string `json:"groups,omitempty"`
}

// MeteoParameter describes a meteorological variable.
type MeteoParameter struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Referential holds every static table used to build a figure.
type Referential struct {
	Groups     map[string][]string
	Pollutants map[string]Pollutant
	// Typologies are kept in classification order: the first match wins.
	Typologies []Typology
	Thresholds map[ThresholdKind]ThresholdDef
	Stations   map[string]string
	Palette    []string
	Meteo      map[string]MeteoParameter

	// CorrectedSince is the first year PM10 is available with the
	// semi-volatile correction.
	CorrectedSince int
	DefaultStation string
}

// Pollutant returns the pollutant with the given code.
func (r *Referential) Pollutant(code string) (Pollutant, error) {
	p, ok := r.Pollutants[code]
	if !ok {
		return Pollutant{}, fmt.Errorf("%w: %s", ErrUnknownPollutant, code)
	}
	return p, nil
}

// PollutantCodes returns the known pollutant codes, sorted.
func (r *Referential) PollutantCodes() []string {
	codes := make([]string, 0, len(r.Pollutants))
	for code := range r.Pollutants {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Group returns the codes of a named group.
func (r *Referential) Group(name string) ([]string, error) {
	codes, ok := r.Groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	return codes, nil
}

// Typology returns a typology by id.
func (r *Referential) Typology(id TypologyID) (Typology, bool) {
	for _, t := range r.Typologies {
		if t.ID == id {
			return t, true
		}
	}
	return Typology{}, false
}

// Classify returns the first typology listing a group that contains code.
func (r *Referential) Classify(code string) (Typology, bool) {
	for _, t := range r.Typologies {
		for _, g := range t.Groups {
			if slices.Contains(r.Groups[g], code) {
				return t, true
			}
		}
	}
	return Typology{}, false
}

// ClassifyGroup returns the first typology that lists the named group.
func (r *Referential) ClassifyGroup(group string) (Typology, error) {
	if _, err := r.Group(group); err != nil {
		return Typology{}, err
	}
	for _, t := range r.Typologies {
		if slices.Contains(t.Groups, group) {
			return t, nil
		}
	}
	return Typology{}, fmt.Errorf("%w: %s", ErrUnclassified, group)
}

// HistoryStart returns the first year of the historical series of pollutant
// for stations of typology t.
func (r *Referential) HistoryStart(t Typology, pollutant string, defaultYear int) (int, error) {
	year, ok := t.History[pollutant]
	if !ok {
		return 0, fmt.Errorf("%w: %s for %s", ErrNoHistory, pollutant, t.ID)
	}
	if year == 0 {
		return defaultYear, nil
	}
	return year, nil
}

// NonCorrectedGroup returns the uncorrected PM10 codes of a typology.
func (r *Referential) NonCorrectedGroup(t Typology) ([]string, bool) {
	if t.NonCorrected == "" {
		return nil, false
	}
	codes, ok := r.Groups[t.NonCorrected]
	return codes, ok
}

// StationName returns the display name of a station code.
func (r *Referential) StationName(station string) (string, error) {
	name, ok := r.Stations[station]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStation, station)
	}
	return name, nil
}

// MeteoParameter returns a meteorological parameter by code.
func (r *Referential) MeteoParameter(code string) (MeteoParameter, error) {
	p, ok := r.Meteo[code]
	if !ok {
		return MeteoParameter{}, fmt.Errorf("%w: %s", ErrUnknownParameter, code)
	}
	return p, nil
}

// Color returns the palette colour for the i-th series of a chart.
func (r *Referential) Color(i int) string {
	if len(r.Palette) == 0 {
		return "#000000"
	}
	return r.Palette[i%len(r.Palette)]
}
