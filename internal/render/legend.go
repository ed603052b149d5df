package render

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type legendEntry struct {
	label string
	color drawing.Color
	width float64
}

func legendEntries(fig Figure) []legendEntry {
	entries := make([]legendEntry, 0, len(fig.Lines)+len(fig.Thresholds))
	for _, line := range fig.Lines {
		if line.Label == "" {
			continue
		}
		entries = append(entries, legendEntry{line.Label, colorOf(line.Color), pixels(dataWidth)})
	}
	for _, th := range fig.Thresholds {
		entries = append(entries, legendEntry{th.Label, colorOf(th.Color), pixels(thresholdWide)})
	}
	return entries
}

// legend draws a frameless legend above the plot area, filled row by row.
func legend(fig Figure, fontSize float64) chart.Renderable {
	entries := legendEntries(fig)
	columns := fig.LegendColumns
	if columns <= 0 {
		columns = DefaultLegendColumns
	}
	hasUnit := fig.Unit != ""

	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}
		r.SetFont(defaults.Font)
		unitHeight := 0
		if hasUnit {
			r.SetFontSize(unitFontSize)
			unitHeight = r.MeasureText("Mg").Height()
		}
		r.SetFontSize(fontSize)
		r.SetFontColor(drawing.ColorBlack)

		rowHeight := r.MeasureText("Mg").Height() * 3 / 2
		sample := int(pixels(fontSize * 2))
		gap := int(pixels(fontSize / 2))
		colWidth := canvas.Width() / columns
		rows := (len(entries) + columns - 1) / columns

		// bottom row baseline sits just above the unit label
		base := canvas.Top - unitHeight - 2*gap - (rows-1)*rowHeight
		for i, e := range entries {
			row, col := i/columns, i%columns
			x := canvas.Left + col*colWidth
			y := base + row*rowHeight
			mid := y - rowHeight/3

			r.SetStrokeColor(e.color)
			r.SetStrokeWidth(e.width)
			r.MoveTo(x, mid)
			r.LineTo(x+sample, mid)
			r.Stroke()

			r.SetFontColor(drawing.ColorBlack)
			r.Text(e.label, x+sample+gap, y)
		}
	}
}

// unitLabel prints the unit at the top left of the plot area.
func unitLabel(unit string) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		if unit == "" {
			return
		}
		r.SetFont(defaults.Font)
		r.SetFontSize(unitFontSize)
		r.SetFontColor(drawing.ColorBlack)
		r.Text(unit, canvas.Left, canvas.Top-int(pixels(unitFontSize/2)))
	}
}

func colorOf(hex string) drawing.Color {
	if len(hex) < 3 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
