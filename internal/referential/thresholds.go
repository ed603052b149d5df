package referential

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUndefinedThreshold = errors.New("threshold not defined for pollutant")

// ThresholdKind identifies a regulatory threshold.
type ThresholdKind string

const (
	RegionalVigilance ThresholdKind = "MVR"
	Information       ThresholdKind = "IR"
	Alert             ThresholdKind = "A"
	LimitValue        ThresholdKind = "VL"
	QualityObjective  ThresholdKind = "OQ"
	WHOGuideline      ThresholdKind = "OMS"
)

// ThresholdDef is one threshold table: a label, a line colour and the value
// per pollutant.
type ThresholdDef struct {
	Label  string
	Color  string
	Values map[string]float64
	// Labels overrides Label for specific pollutants.
	Labels map[string]string
}

// Threshold is a resolved value for one pollutant.
type Threshold struct {
	Kind      ThresholdKind `json:"kind"`
	Pollutant string        `json:"pollutant"`
	Value     float64       `json:"value"`
	Label     string        `json:"label"`
	Color     string        `json:"color"`
}

// Caption is the legend entry of a threshold line.
func (t Threshold) Caption(unit string) string {
	return fmt.Sprintf("%s (%d %s)", t.Label, int(t.Value), unit)
}

// ParseThresholdKind accepts a kind code, case-insensitively.
func ParseThresholdKind(s string) (ThresholdKind, error) {
	kind := ThresholdKind(strings.ToUpper(strings.TrimSpace(s)))
	switch kind {
	case RegionalVigilance, Information, Alert, LimitValue, QualityObjective, WHOGuideline:
		return kind, nil
	}
	return "", fmt.Errorf("unknown threshold kind %q", s)
}

// Threshold resolves the value of kind for pollutant.
func (r *Referential) Threshold(kind ThresholdKind, pollutant string) (Threshold, error) {
	def, ok := r.Thresholds[kind]
	if !ok {
		return Threshold{}, fmt.Errorf("%w: %s", ErrUndefinedThreshold, kind)
	}
	value, ok := def.Values[pollutant]
	if !ok {
		return Threshold{}, fmt.Errorf("%w: %s for %s", ErrUndefinedThreshold, kind, pollutant)
	}

	label := def.Label
	if l, ok := def.Labels[pollutant]; ok {
		label = l
	}
	return Threshold{
		Kind:      kind,
		Pollutant: pollutant,
		Value:     value,
		Label:     label,
		Color:     def.Color,
	}, nil
}
