package report

import (
	"fmt"
	"strings"

	"github.com/i474232898/airquality-figures/internal/referential"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/scale"
)

// Selection lists the threshold overlays asked for a chart.
type Selection struct {
	// Alert draws the regional vigilance, information and alert thresholds.
	Alert            bool `json:"alert"`
	LimitValue       bool `json:"limitValue"`
	QualityObjective bool `json:"qualityObjective"`
	WHO              bool `json:"who"`
}

// ParseSelection reads overlay names: ALERT (or A), VL, OQ and OMS (or WHO).
func ParseSelection(names []string) (Selection, error) {
	var s Selection
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			switch strings.ToUpper(strings.TrimSpace(name)) {
			case "":
			case "A", "ALERT", "ALERTE":
				s.Alert = true
			case "VL":
				s.LimitValue = true
			case "OQ":
				s.QualityObjective = true
			case "OMS", "WHO":
				s.WHO = true
			default:
				return Selection{}, fmt.Errorf("%w: %q", ErrUnknownThreshold, name)
			}
		}
	}
	return s, nil
}

// kinds expands the selection into threshold kinds for pollutant, in drawing
// order. Alert overlays are only drawn on measures charts.
func (s Selection) kinds(pollutant string, withAlert bool) []referential.ThresholdKind {
	var kinds []referential.ThresholdKind
	if s.Alert && withAlert {
		if pollutant != "PM10" && pollutant != "PM10NC" {
			kinds = append(kinds, referential.RegionalVigilance)
		}
		kinds = append(kinds, referential.Information, referential.Alert)
	}
	if s.LimitValue {
		kinds = append(kinds, referential.LimitValue)
	}
	if s.QualityObjective && pollutant != "CO" {
		kinds = append(kinds, referential.QualityObjective)
	}
	if s.WHO && pollutant != "CO" {
		kinds = append(kinds, referential.WHOGuideline)
	}
	return kinds
}

// thresholdLines resolves the selected overlays of pollutant and keeps those
// that fit on axis.
func thresholdLines(ref *referential.Referential, sel Selection, p referential.Pollutant, axis scale.Axis, withAlert bool) ([]render.ThresholdLine, error) {
	var lines []render.ThresholdLine
	for _, kind := range sel.kinds(p.Code, withAlert) {
		th, err := ref.Threshold(kind, p.Code)
		if err != nil {
			return nil, err
		}
		if !scale.ThresholdVisible(th.Value, axis) {
			continue
		}
		lines = append(lines, render.ThresholdLine{
			Label: th.Caption(p.Unit),
			Color: th.Color,
			Value: th.Value,
		})
	}
	return lines, nil
}
