package timeseries

import (
	"fmt"
	"math"
	"time"
)

// Aggregator reduces the valid values of a bin. It is never called with NaN
// values nor with an empty slice.
type Aggregator func(values []float64) float64

func Mean(values []float64) float64 {
	return Sum(values) / float64(len(values))
}

func Sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func Max(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func Min(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Resample groups rows into consecutive bins of freq, each labelled by its
// period start, and reduces every bin with agg. Bins span the whole range
// between the first and last row; a bin without valid values is NaN.
func Resample(f Frame, freq Frequency, agg Aggregator, loc *time.Location) Frame {
	out := Frame{Columns: make([]Column, len(f.Columns))}
	for i, c := range f.Columns {
		out.Columns[i].Name = c.Name
	}
	if f.Len() == 0 {
		return out
	}

	start := freq.Truncate(f.Index[0], loc)
	end := freq.Truncate(f.Index[f.Len()-1], loc)

	bins := make(map[int64]int)
	for t := start; !t.After(end); t = freq.Next(t) {
		bins[t.UnixNano()] = len(out.Index)
		out.Index = append(out.Index, t)
	}

	buckets := make([][][]float64, len(f.Columns))
	for i := range buckets {
		buckets[i] = make([][]float64, len(out.Index))
	}
	for row, t := range f.Index {
		b, ok := bins[freq.Truncate(t, loc).UnixNano()]
		if !ok {
			continue
		}
		for i, c := range f.Columns {
			if v := c.Values[row]; !math.IsNaN(v) {
				buckets[i][b] = append(buckets[i][b], v)
			}
		}
	}

	for i := range out.Columns {
		values := make([]float64, len(out.Index))
		for b, bucket := range buckets[i] {
			if len(bucket) == 0 {
				values[b] = math.NaN()
				continue
			}
			values[b] = agg(bucket)
		}
		out.Columns[i].Values = values
	}
	return out
}

// MinValid is the number of valid samples a window of size window needs
// to reach ratio.
func MinValid(window int, ratio float64) int {
	n := int(math.Ceil(ratio * float64(window)))
	if n < 1 {
		n = 1
	}
	return n
}

// RollingMean computes a trailing mean over the last window rows. A row whose
// window holds fewer than minValid valid samples is NaN.
func RollingMean(f Frame, window, minValid int) (Frame, error) {
	if window <= 0 {
		return Frame{}, fmt.Errorf("rolling window must be positive, got %d", window)
	}
	if minValid <= 0 || minValid > window {
		return Frame{}, fmt.Errorf("minimum valid samples must be in [1, %d], got %d", window, minValid)
	}

	out := f.Clone()
	for i, c := range f.Columns {
		values := out.Columns[i].Values
		for row := range c.Values {
			var (
				sum   float64
				count int
			)
			for k := max(0, row-window+1); k <= row; k++ {
				if v := c.Values[k]; !math.IsNaN(v) {
					sum += v
					count++
				}
			}
			if count < minValid {
				values[row] = math.NaN()
				continue
			}
			values[row] = sum / float64(count)
		}
	}
	return out, nil
}
