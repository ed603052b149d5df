package timeseries

import (
	"fmt"
	"math"
	"time"
)

// RowMean compresses all columns into a single column holding the mean of
// the valid values of each row.
func RowMean(f Frame, name string) Frame {
	return reduceRows(f, name, Mean)
}

// RowMax compresses all columns into their row-wise maximum.
func RowMax(f Frame, name string) Frame {
	return reduceRows(f, name, Max)
}

// RowMin compresses all columns into their row-wise minimum.
func RowMin(f Frame, name string) Frame {
	return reduceRows(f, name, Min)
}

func reduceRows(f Frame, name string, agg Aggregator) Frame {
	out := Frame{
		Index:   append([]time.Time(nil), f.Index...),
		Columns: []Column{{Name: name, Values: make([]float64, f.Len())}},
	}
	row := make([]float64, 0, len(f.Columns))
	for r := range f.Index {
		row = row[:0]
		for _, c := range f.Columns {
			if v := c.Values[r]; !math.IsNaN(v) {
				row = append(row, v)
			}
		}
		if len(row) == 0 {
			out.Columns[0].Values[r] = math.NaN()
			continue
		}
		out.Columns[0].Values[r] = agg(row)
	}
	return out
}

// Concat appends the rows of b after the rows of a. Both frames must carry
// the same column names in the same order; an empty frame is ignored.
func Concat(a, b Frame) (Frame, error) {
	if a.Len() == 0 {
		return b.Clone(), nil
	}
	if b.Len() == 0 {
		return a.Clone(), nil
	}
	if len(a.Columns) != len(b.Columns) {
		return Frame{}, fmt.Errorf("cannot concat frames with %d and %d columns", len(a.Columns), len(b.Columns))
	}

	out := a.Clone()
	out.Index = append(out.Index, b.Index...)
	for i, c := range b.Columns {
		if out.Columns[i].Name != c.Name {
			return Frame{}, fmt.Errorf("cannot concat column %s with %s", out.Columns[i].Name, c.Name)
		}
		out.Columns[i].Values = append(out.Columns[i].Values, c.Values...)
	}
	return out, nil
}

// ClipNegative replaces negative values with zero.
func ClipNegative(f Frame) Frame {
	out := f.Clone()
	for i := range out.Columns {
		for j, v := range out.Columns[i].Values {
			if v < 0 {
				out.Columns[i].Values[j] = 0
			}
		}
	}
	return out
}

// CumSum returns the running sum of values. Missing values do not contribute
// and stay missing in the output.
func CumSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var total float64
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		total += v
		out[i] = total
	}
	return out
}

// ColumnStats are the descriptive statistics printed for a report.
type ColumnStats struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// Describe computes statistics per column over valid values.
func Describe(f Frame) []ColumnStats {
	stats := make([]ColumnStats, 0, len(f.Columns))
	for _, c := range f.Columns {
		valid := make([]float64, 0, len(c.Values))
		for _, v := range c.Values {
			if !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}
		s := ColumnStats{Name: c.Name, Count: len(valid)}
		if len(valid) == 0 {
			s.Mean, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN()
		} else {
			s.Sum = Sum(valid)
			s.Mean = s.Sum / float64(len(valid))
			s.Min = Min(valid)
			s.Max = Max(valid)
		}
		stats = append(stats, s)
	}
	return stats
}
