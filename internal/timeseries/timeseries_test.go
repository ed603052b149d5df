package timeseries

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func hour(h int) time.Time {
	return time.Date(2015, time.July, 1, h, 0, 0, 0, time.UTC)
}

func TestFromSeriesAlignsOnUnionIndex(t *testing.T) {
	frame := FromSeries([]Series{
		{Name: "O3_GAR", Points: []Point{{hour(0), 10}, {hour(2), 30}}},
		{Name: "O3_MER", Points: []Point{{hour(1), 20}}},
	})

	if frame.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", frame.Len())
	}
	gar, _ := frame.Column("O3_GAR")
	if !math.IsNaN(gar.Values[1]) {
		t.Fatalf("expected NaN at missing timestamp, got %v", gar.Values[1])
	}
	mer, _ := frame.Column("O3_MER")
	if mer.Values[1] != 20 {
		t.Fatalf("expected 20, got %v", mer.Values[1])
	}
}

func TestResampleDailyMaxFillsEmptyBins(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2015, time.July, d, h, 0, 0, 0, time.UTC) }
	frame := FromSeries([]Series{{Name: "NO2_AIN", Points: []Point{
		{day(1, 3), 12}, {day(1, 14), 40}, {day(3, 8), math.NaN()}, {day(3, 9), 7},
	}}})

	out := Resample(frame, Daily, Max, time.UTC)

	if out.Len() != 3 {
		t.Fatalf("expected 3 daily bins, got %d", out.Len())
	}
	if !out.Index[0].Equal(day(1, 0)) {
		t.Fatalf("expected bin labelled by period start, got %v", out.Index[0])
	}
	values := out.Columns[0].Values
	if values[0] != 40 || !math.IsNaN(values[1]) || values[2] != 7 {
		t.Fatalf("unexpected daily max values %v", values)
	}
}

func TestResampleAnnualMeanUsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// 2014-12-31 23:30 UTC is already 2015 in Paris.
	frame := FromSeries([]Series{{Name: "PM10C_PRE", Points: []Point{
		{time.Date(2014, time.December, 31, 23, 30, 0, 0, time.UTC), 30},
		{time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC), 10},
	}}})

	out := Resample(frame, Annual, Mean, paris)

	if out.Len() != 1 {
		t.Fatalf("expected a single 2015 bin, got %d bins", out.Len())
	}
	if out.Index[0].Year() != 2015 || out.Columns[0].Values[0] != 20 {
		t.Fatalf("unexpected annual mean %v at %v", out.Columns[0].Values[0], out.Index[0])
	}
}

func TestRollingMeanHonoursValidRatio(t *testing.T) {
	points := make([]Point, 0, 10)
	for h := 0; h < 10; h++ {
		v := float64(h)
		if h == 3 || h == 4 {
			v = math.NaN()
		}
		points = append(points, Point{hour(h), v})
	}
	frame := FromSeries([]Series{{Name: "O3_GAR", Points: points}})

	window := 4
	out, err := RollingMean(frame, window, MinValid(window, 0.75))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := out.Columns[0].Values

	if !math.IsNaN(values[1]) {
		t.Fatalf("expected NaN for an incomplete leading window, got %v", values[1])
	}
	if values[2] != 1 {
		t.Fatalf("expected mean of 0,1,2 = 1, got %v", values[2])
	}
	if !math.IsNaN(values[5]) {
		t.Fatalf("expected NaN with only 2 valid samples out of 4, got %v", values[5])
	}
	if values[9] != 7.5 {
		t.Fatalf("expected 7.5, got %v", values[9])
	}
}

func TestRollingMeanRejectsInvalidWindow(t *testing.T) {
	if _, err := RollingMean(Frame{}, 0, 1); err == nil {
		t.Fatalf("expected error for zero window")
	}
	if _, err := RollingMean(Frame{}, 8, 9); err == nil {
		t.Fatalf("expected error when minimum exceeds window")
	}
}

func TestRowReducersSkipMissingValues(t *testing.T) {
	frame := FromSeries([]Series{
		{Name: "a", Points: []Point{{hour(0), 10}, {hour(1), math.NaN()}}},
		{Name: "b", Points: []Point{{hour(0), 30}, {hour(1), math.NaN()}}},
		{Name: "c", Points: []Point{{hour(0), math.NaN()}}},
	})

	mean := RowMean(frame, "mean").Columns[0]
	if mean.Name != "mean" || mean.Values[0] != 20 || !math.IsNaN(mean.Values[1]) {
		t.Fatalf("unexpected row mean %+v", mean)
	}
	if got := RowMax(frame, "max").Columns[0].Values[0]; got != 30 {
		t.Fatalf("expected row max 30, got %v", got)
	}
	if got := RowMin(frame, "min").Columns[0].Values[0]; got != 10 {
		t.Fatalf("expected row min 10, got %v", got)
	}
}

func TestConcatKeepsOrder(t *testing.T) {
	year := func(y int) time.Time { return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC) }
	a := FromSeries([]Series{{Name: "x", Points: []Point{{year(2005), 1}, {year(2006), 2}}}})
	b := FromSeries([]Series{{Name: "x", Points: []Point{{year(2007), 3}}}})

	out, err := Concat(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 3 || out.Index[2].Year() != 2007 || out.Columns[0].Values[2] != 3 {
		t.Fatalf("unexpected concat result %+v", out)
	}

	if _, err := Concat(a, FromSeries([]Series{{Name: "y", Points: []Point{{year(2007), 3}}}})); err == nil {
		t.Fatalf("expected error for mismatched column names")
	}
}

func TestClipNegativeAndCumSum(t *testing.T) {
	frame := FromSeries([]Series{{Name: "RR1", Points: []Point{
		{hour(0), -1}, {hour(1), 2}, {hour(2), math.NaN()}, {hour(3), 3},
	}}})

	clipped := ClipNegative(frame).Columns[0].Values
	if clipped[0] != 0 {
		t.Fatalf("expected negative value clipped to 0, got %v", clipped[0])
	}

	cum := CumSum(clipped)
	if cum[1] != 2 || !math.IsNaN(cum[2]) || cum[3] != 5 {
		t.Fatalf("unexpected cumulative sum %v", cum)
	}
}

func TestDescribe(t *testing.T) {
	frame := FromSeries([]Series{{Name: "T", Points: []Point{
		{hour(0), 12}, {hour(1), 18}, {hour(2), math.NaN()},
	}}})

	stats := Describe(frame)
	if len(stats) != 1 {
		t.Fatalf("expected 1 column, got %d", len(stats))
	}
	s := stats[0]
	if s.Mean != 15 || s.Min != 12 || s.Max != 18 || s.Sum != 30 || s.Count != 2 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestSegmentsSplitOnMissingValues(t *testing.T) {
	index := []time.Time{hour(0), hour(1), hour(2), hour(3), hour(4)}
	segs := Segments(index, []float64{1, math.NaN(), 2, 3, math.NaN()})

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if len(segs[1]) != 2 || segs[1][0].Value != 2 {
		t.Fatalf("unexpected second segment %+v", segs[1])
	}
}

func TestParseFrequency(t *testing.T) {
	cases := map[string]Frequency{"h": Hourly, "15T": QuarterHour, "QH": QuarterHour, "Y": Annual, "m": Monthly}
	for in, want := range cases {
		got, err := ParseFrequency(in)
		if err != nil || got != want {
			t.Fatalf("ParseFrequency(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFrequency("W"); err == nil {
		t.Fatalf("expected error for unsupported frequency")
	}
}

func TestColumnJSONEncodesMissingAsNull(t *testing.T) {
	data, err := json.Marshal(Column{Name: "O3_GAR", Values: []float64{1.5, math.NaN()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"O3_GAR","values":[1.5,null]}` {
		t.Fatalf("unexpected encoding %s", data)
	}
}
