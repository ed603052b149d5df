package export

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

func TestWriteXLSX(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	start := time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC)
	frame := timeseries.FromSeries([]timeseries.Series{
		{Name: "O3_GAR", Points: []timeseries.Point{{Time: start, Value: 80.5}, {Time: start.Add(time.Hour), Value: math.NaN()}}},
		{Name: "O3_MER", Points: []timeseries.Point{{Time: start, Value: 91}}},
	})

	path := filepath.Join(t.TempDir(), "out", "O3juillet2015.xlsx")
	if err := WriteXLSX(path, "O3", frame, paris); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("O3")
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "O3_GAR" || rows[0][2] != "O3_MER" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "2015-07-01 02:00" {
		t.Fatalf("expected local time, got %q", rows[1][0])
	}
	if rows[1][1] != "80.5" {
		t.Fatalf("expected 80.5, got %q", rows[1][1])
	}
	// trailing empty cells are trimmed by GetRows
	if len(rows[2]) > 1 && rows[2][1] != "" {
		t.Fatalf("expected blank cell for missing value, got %q", rows[2][1])
	}
}

func TestWriteXLSXEmptyFrame(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "x.xlsx"), "", timeseries.Frame{}, nil)
	if !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
}
