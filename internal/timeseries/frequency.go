package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is a sampling period, named the way the measurement database names it.
type Frequency string

const (
	QuarterHour Frequency = "15T"
	Hourly      Frequency = "H"
	Daily       Frequency = "D"
	Monthly     Frequency = "M"
	Annual      Frequency = "A"
)

// ParseFrequency accepts the database names plus a few common aliases.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "15T", "QH", "15MIN":
		return QuarterHour, nil
	case "H", "1H":
		return Hourly, nil
	case "D", "1D":
		return Daily, nil
	case "M":
		return Monthly, nil
	case "A", "Y":
		return Annual, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// Truncate returns the start of the period containing t.
func (f Frequency) Truncate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	switch f {
	case QuarterHour:
		return t.Truncate(15 * time.Minute).In(loc)
	case Hourly:
		return t.Truncate(time.Hour).In(loc)
	}

	t = t.In(loc)
	switch f {
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case Annual:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		return t
	}
}

// Next returns the start of the period following the one starting at t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case QuarterHour:
		return t.Add(15 * time.Minute)
	case Hourly:
		return t.Add(time.Hour)
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
	case Monthly:
		return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	case Annual:
		return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return t.Add(time.Hour)
	}
}

// Layout is the time layout used to label an axis sampled at f.
func (f Frequency) Layout() string {
	switch f {
	case Annual:
		return "2006"
	case Monthly:
		return "01/2006"
	case Daily:
		return "02/01"
	default:
		return "02/01 15h"
	}
}

func (f Frequency) String() string {
	return string(f)
}
