package common

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2015-07-01", "2015-07-01 13:45:00", "2015-07-01T13:45:00Z"} {
		got, err := ParseDate(in, time.UTC)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if want := time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
			t.Fatalf("expected %v for %q, got %v", want, in, got)
		}
	}
	if _, err := ParseDate("not a date", time.UTC); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2016, time.March, 15, 10, 0, 0, 0, time.UTC)

	from, to, err := ResolvePeriod(PreviousMonth, now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2016 is a leap year
	if from.Day() != 1 || from.Month() != time.February || to.Day() != 29 {
		t.Fatalf("expected 2016-02-01..2016-02-29, got %v..%v", from, to)
	}

	from, to, _ = ResolvePeriod(PreviousDay, now, time.UTC)
	if !from.Equal(to) || from.Day() != 14 {
		t.Fatalf("expected the 14th, got %v..%v", from, to)
	}

	from, to, _ = ResolvePeriod(PreviousYear, now, time.UTC)
	if from.Year() != 2015 || to.Year() != 2015 || to.Month() != time.December {
		t.Fatalf("expected 2015, got %v..%v", from, to)
	}

	if _, _, err := ResolvePeriod("last-decade", now, time.UTC); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2016, time.March, 15, 10, 0, 0, 0, time.UTC)

	from, to, err := Window("", "2015-07-01", "", now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(to) {
		t.Fatalf("expected a single day window, got %v - %v", from, to)
	}

	from, _, err = Window(PreviousDay, "2015-07-01", "2015-07-31", now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Day() != 14 {
		t.Fatalf("expected the period to win over dates, got %v", from)
	}

	if _, _, err := Window("", "", "2015-07-31", now, time.UTC); !errors.Is(err, ErrNoStartDate) {
		t.Fatalf("expected ErrNoStartDate, got %v", err)
	}
}
