package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrNoStartDate   = errors.New("no period nor start date")
)

// Relative periods a job can ask for instead of fixed dates.
const (
	PreviousDay   = "previous-day"
	PreviousMonth = "previous-month"
	PreviousYear  = "previous-year"
	CurrentMonth  = "current-month"
)

// ParseDate parses a day in any common layout (2015-07-01, 01/07/2015,
// RFC3339...) and returns its midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ResolvePeriod returns the first and last day of a relative period seen
// from now. Both bounds are inclusive days.
func ResolvePeriod(period string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	switch strings.ToLower(strings.TrimSpace(period)) {
	case PreviousDay:
		day := today.AddDate(0, 0, -1)
		return day, day, nil
	case PreviousMonth:
		return month.AddDate(0, -1, 0), month.AddDate(0, 0, -1), nil
	case PreviousYear:
		return time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc),
			time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, loc), nil
	case CurrentMonth:
		return month, today, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
}

// Window resolves an inclusive day range from either a relative period or
// fixed dates. The period wins; an empty end date means the start day only.
func Window(period, from, to string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if period != "" {
		return ResolvePeriod(period, now, loc)
	}
	if from == "" {
		return time.Time{}, time.Time{}, ErrNoStartDate
	}
	start, err := ParseDate(from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to == "" {
		return start, start, nil
	}
	end, err := ParseDate(to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// YearBounds returns January 1st and December 31st of year.
func YearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc), time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
}
