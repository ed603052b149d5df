package export

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// DateLayout is the layout of the Date column.
const DateLayout = "2006-01-02 15:04"

var ErrEmptyFrame = errors.New("nothing to export")

// WriteXLSX writes frame as a single-sheet workbook: a Date column followed by
// one column per series. Missing values are left blank.
func WriteXLSX(path, sheet string, frame timeseries.Frame, loc *time.Location) error {
	if frame.Empty() {
		return ErrEmptyFrame
	}
	if loc == nil {
		loc = time.UTC
	}
	if sheet == "" {
		sheet = "data"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := append([]interface{}{"Date"}, toInterfaces(frame.Names())...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, t := range frame.Index {
		row := make([]interface{}, 0, len(frame.Columns)+1)
		row = append(row, t.In(loc).Format(DateLayout))
		for _, c := range frame.Columns {
			if math.IsNaN(c.Values[i]) {
				row = append(row, nil)
				continue
			}
			row = append(row, c.Values[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func toInterfaces(names []string) []interface{} {
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
