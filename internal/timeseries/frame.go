package timeseries

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Point is a single timestamped value. NaN marks a missing measurement.
type Point struct {
	Time  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a named list of points as returned by a data source.
type Series struct {
	Name   string
	Points []Point
}

// Column is a named value vector aligned on a Frame index.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// MarshalJSON encodes missing values as null.
func (c Column) MarshalJSON() ([]byte, error) {
	values := make([]*float64, len(c.Values))
	for i := range c.Values {
		if !math.IsNaN(c.Values[i]) {
			values[i] = &c.Values[i]
		}
	}
	return json.Marshal(struct {
		Name   string     `json:"name"`
		Values []*float64 `json:"values"`
	}{c.Name, values})
}

// Frame is a set of columns sharing a sorted time index.
type Frame struct {
	Index   []time.Time `json:"index"`
	Columns []Column    `json:"columns"`
}

// FromSeries aligns series on the union of their timestamps.
// Timestamps missing from a series become NaN in its column.
func FromSeries(series []Series) Frame {
	seen := make(map[int64]time.Time)
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Time.UnixNano()] = p.Time
		}
	}

	index := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		index = append(index, t)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	pos := make(map[int64]int, len(index))
	for i, t := range index {
		pos[t.UnixNano()] = i
	}

	frame := Frame{Index: index, Columns: make([]Column, 0, len(series))}
	for _, s := range series {
		values := nanSlice(len(index))
		for _, p := range s.Points {
			values[pos[p.Time.UnixNano()]] = p.Value
		}
		frame.Columns = append(frame.Columns, Column{Name: s.Name, Values: values})
	}
	return frame
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Index)
}

// Empty reports whether the frame has no rows or no columns.
func (f Frame) Empty() bool {
	return len(f.Index) == 0 || len(f.Columns) == 0
}

// Names returns the column names in order.
func (f Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (f Frame) Column(name string) (Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// WithColumn returns a copy of f with an extra column appended.
func (f Frame) WithColumn(name string, values []float64) (Frame, error) {
	if len(values) != len(f.Index) {
		return Frame{}, fmt.Errorf("column %s has %d values, index has %d", name, len(values), len(f.Index))
	}
	out := f.Clone()
	out.Columns = append(out.Columns, Column{Name: name, Values: append([]float64(nil), values...)})
	return out, nil
}

// Select keeps only the named columns, in the given order.
func (f Frame) Select(names ...string) (Frame, error) {
	out := Frame{Index: append([]time.Time(nil), f.Index...)}
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return Frame{}, fmt.Errorf("column %s not found", name)
		}
		out.Columns = append(out.Columns, Column{Name: c.Name, Values: append([]float64(nil), c.Values...)})
	}
	return out, nil
}

// Rename returns a copy of f with column old renamed.
func (f Frame) Rename(old, name string) Frame {
	out := f.Clone()
	for i := range out.Columns {
		if out.Columns[i].Name == old {
			out.Columns[i].Name = name
		}
	}
	return out
}

// Clone deep-copies the frame.
func (f Frame) Clone() Frame {
	out := Frame{
		Index:   append([]time.Time(nil), f.Index...),
		Columns: make([]Column, len(f.Columns)),
	}
	for i, c := range f.Columns {
		out.Columns[i] = Column{Name: c.Name, Values: append([]float64(nil), c.Values...)}
	}
	return out
}

// Between keeps the rows whose timestamp lies in [from, to].
func (f Frame) Between(from, to time.Time) Frame {
	out := Frame{Columns: make([]Column, len(f.Columns))}
	for i, c := range f.Columns {
		out.Columns[i].Name = c.Name
	}
	for row, t := range f.Index {
		if t.Before(from) || t.After(to) {
			continue
		}
		out.Index = append(out.Index, t)
		for i, c := range f.Columns {
			out.Columns[i].Values = append(out.Columns[i].Values, c.Values[row])
		}
	}
	return out
}

// Points returns the points of column i, missing values included.
func (f Frame) Points(i int) []Point {
	c := f.Columns[i]
	pts := make([]Point, len(f.Index))
	for row, t := range f.Index {
		pts[row] = Point{Time: t, Value: c.Values[row]}
	}
	return pts
}

// Max returns the largest valid value over all columns, NaN if there is none.
func (f Frame) Max() float64 {
	return f.fold(math.Max)
}

// Min returns the smallest valid value over all columns, NaN if there is none.
func (f Frame) Min() float64 {
	return f.fold(math.Min)
}

func (f Frame) fold(pick func(a, b float64) float64) float64 {
	out := math.NaN()
	for _, c := range f.Columns {
		for _, v := range c.Values {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(out) {
				out = v
				continue
			}
			out = pick(out, v)
		}
	}
	return out
}

// Segments splits values into contiguous runs of valid points.
func Segments(index []time.Time, values []float64) [][]Point {
	var (
		out     [][]Point
		current []Point
	)
	for i, v := range values {
		if math.IsNaN(v) {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, Point{Time: index[i], Value: v})
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
