package render

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/airquality-figures/internal/scale"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func hourly(values ...float64) ([]time.Time, []float64) {
	start := time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC)
	index := make([]time.Time, len(values))
	for i := range values {
		index[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return index, values
}

func sampleFigure() Figure {
	index, values := hourly(40, 55, math.NaN(), 80, 120)
	return Figure{
		Size: Large,
		Lines: []Line{
			{Label: "Ozone - Garros", Color: "#0000ff", Index: index, Values: values, Markers: true},
		},
		Thresholds: []ThresholdLine{{Label: "Valeur limite (120 µg/m³)", Color: "#ff0000", Value: 120}},
		Axis:       scale.Axis{Min: 0, Max: 200, Bounded: true},
		Unit:       "µg/m³",
		XLayout:    "02/01 15h",
	}
}

func TestRenderWritesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(sampleFigure(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderSmallUnboundedFigure(t *testing.T) {
	fig := sampleFigure()
	fig.Size = Small
	fig.Axis = scale.Axis{Min: -5}
	fig.LegendColumns = 3
	fig.Bottom = 0.25
	fig.Unit = ""

	var buf bytes.Buffer
	if err := Render(fig, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderEmptyFigure(t *testing.T) {
	index, values := hourly(math.NaN(), math.NaN())
	fig := Figure{Lines: []Line{{Label: "empty", Index: index, Values: values}}}

	if err := Render(fig, &bytes.Buffer{}); !errors.Is(err, ErrEmptyFigure) {
		t.Fatalf("expected ErrEmptyFigure, got %v", err)
	}
	if err := Render(Figure{}, &bytes.Buffer{}); !errors.Is(err, ErrEmptyFigure) {
		t.Fatalf("expected ErrEmptyFigure without lines, got %v", err)
	}
}

func TestSaveFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Figures", "O3juillet2015.png")
	if err := SaveFile(sampleFigure(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected figure on disk: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatalf("expected PNG file")
	}
}

func TestLayoutPixels(t *testing.T) {
	l, err := Large.Layout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w, h := l.Pixels(); w != 1890 || h != 1063 {
		t.Fatalf("expected 1890x1063, got %dx%d", w, h)
	}
	if _, err := ParseSize("XL"); !errors.Is(err, ErrUnknownSize) {
		t.Fatalf("expected ErrUnknownSize, got %v", err)
	}
	if s, _ := ParseSize("s"); s != Small {
		t.Fatalf("expected S, got %s", s)
	}
}

func TestYTicks(t *testing.T) {
	ticks := yTicks(0, 250)
	if ticks[0].Value != 0 || ticks[len(ticks)-1].Value != 250 {
		t.Fatalf("expected ticks from 0 to 250, got %v", ticks)
	}
	ticks = yTicks(-5, 30)
	if ticks[0].Value > -5 || ticks[len(ticks)-1].Value < 30 {
		t.Fatalf("expected ticks to cover [-5, 30], got %v", ticks)
	}
	ticks = yTicks(0, 1)
	if ticks[len(ticks)-1].Label != "1" {
		t.Fatalf("expected last label 1, got %q", ticks[len(ticks)-1].Label)
	}
}
