package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// Statistics summarise the plotted data of a chart.
type Statistics struct {
	Columns []timeseries.ColumnStats
	// Rainfall is the total precipitation of a meteo chart carrying RR1.
	Rainfall    float64
	HasRainfall bool
}

// Describe computes the statistics of frame.
func Describe(frame timeseries.Frame) Statistics {
	return Statistics{Columns: timeseries.Describe(frame)}
}

// Write prints the statistics as an aligned table.
func (s Statistics) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIES\tMEAN\tMAX\tMIN\tVALID")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.Name, number(c.Mean), number(c.Max), number(c.Min), c.Count)
	}
	if s.HasRainfall {
		fmt.Fprintf(tw, "\ncumul de précipitations\t%s\n", number(s.Rainfall))
	}
	return tw.Flush()
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}
