package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

// MeasurePoint is one archived value of a measurement code.
type MeasurePoint struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"uniqueIndex:idx_measure_point;not null"`
	Frequency string    `gorm:"uniqueIndex:idx_measure_point;not null"`
	Timestamp time.Time `gorm:"uniqueIndex:idx_measure_point;not null"`
	Value     *float64
}

// MeteoPoint is one archived value of a meteorological parameter.
type MeteoPoint struct {
	ID        uint      `gorm:"primaryKey"`
	Station   string    `gorm:"uniqueIndex:idx_meteo_point;not null"`
	Parameter string    `gorm:"uniqueIndex:idx_meteo_point;not null"`
	Timestamp time.Time `gorm:"uniqueIndex:idx_meteo_point;not null"`
	Value     *float64
}

// MeasureRecord is an archived entry of the measurement list.
type MeasureRecord struct {
	Code      string `gorm:"primaryKey"`
	Station   string
	Pollutant string
	Network   string `gorm:"index"`
	UpdatedAt time.Time
}

// SQLiteArchive implements measures.Archive on a sqlite database.
type SQLiteArchive struct {
	db *gorm.DB
}

// OpenSQLiteArchive opens (and creates) the archive database at path.
func OpenSQLiteArchive(path string) (*SQLiteArchive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if err := db.AutoMigrate(&MeasurePoint{}, &MeteoPoint{}, &MeasureRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive: %w", err)
	}
	return &SQLiteArchive{db: db}, nil
}

// Close releases the database handle.
func (a *SQLiteArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *SQLiteArchive) SaveFrame(ctx context.Context, freq timeseries.Frequency, frame timeseries.Frame) error {
	rows := make([]MeasurePoint, 0, frame.Len()*len(frame.Columns))
	for _, c := range frame.Columns {
		for i, t := range frame.Index {
			rows = append(rows, MeasurePoint{
				Code:      c.Name,
				Frequency: string(freq),
				Timestamp: t.UTC(),
				Value:     nullable(c.Values[i]),
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}, {Name: "frequency"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).CreateInBatches(rows, 500).Error
}

func (a *SQLiteArchive) LoadFrame(ctx context.Context, q measures.Query) (timeseries.Frame, error) {
	var rows []MeasurePoint
	err := a.db.WithContext(ctx).
		Where("code IN ? AND frequency = ? AND timestamp >= ? AND timestamp < ?",
			q.Codes, string(q.Frequency), q.From.UTC(), endOfDay(q.To).UTC()).
		Order("timestamp").
		Find(&rows).Error
	if err != nil {
		return timeseries.Frame{}, err
	}
	if len(rows) == 0 {
		return timeseries.Frame{}, ErrNotFound
	}

	byCode := make(map[string][]timeseries.Point)
	for _, r := range rows {
		byCode[r.Code] = append(byCode[r.Code], timeseries.Point{Time: r.Timestamp, Value: valueOf(r.Value)})
	}
	series := make([]timeseries.Series, 0, len(q.Codes))
	for _, code := range q.Codes {
		if pts, ok := byCode[code]; ok {
			series = append(series, timeseries.Series{Name: code, Points: pts})
		}
	}
	return timeseries.FromSeries(series), nil
}

func (a *SQLiteArchive) SaveMeasureInfos(ctx context.Context, infos []measures.MeasureInfo) error {
	if len(infos) == 0 {
		return nil
	}
	rows := make([]MeasureRecord, len(infos))
	for i, info := range infos {
		rows[i] = MeasureRecord{
			Code:      info.Code,
			Station:   info.Station,
			Pollutant: info.Pollutant,
			Network:   info.Network,
		}
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"station", "pollutant", "network", "updated_at"}),
	}).Create(&rows).Error
}

func (a *SQLiteArchive) LoadMeasureInfos(ctx context.Context, f measures.Filter) ([]measures.MeasureInfo, error) {
	tx := a.db.WithContext(ctx).Order("code")
	if f.Network != "" {
		tx = tx.Where("network = ?", f.Network)
	}
	if len(f.Codes) > 0 {
		tx = tx.Where("code IN ?", f.Codes)
	}

	var rows []MeasureRecord
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	infos := make([]measures.MeasureInfo, len(rows))
	for i, r := range rows {
		infos[i] = measures.MeasureInfo{Code: r.Code, Station: r.Station, Pollutant: r.Pollutant, Network: r.Network}
	}
	return infos, nil
}

func (a *SQLiteArchive) SaveMeteo(ctx context.Context, station string, frame timeseries.Frame) error {
	rows := make([]MeteoPoint, 0, frame.Len()*len(frame.Columns))
	for _, c := range frame.Columns {
		for i, t := range frame.Index {
			rows = append(rows, MeteoPoint{
				Station:   station,
				Parameter: c.Name,
				Timestamp: t.UTC(),
				Value:     nullable(c.Values[i]),
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "station"}, {Name: "parameter"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).CreateInBatches(rows, 500).Error
}

func (a *SQLiteArchive) LoadMeteo(ctx context.Context, q measures.MeteoQuery) (timeseries.Frame, error) {
	var rows []MeteoPoint
	err := a.db.WithContext(ctx).
		Where("station = ? AND parameter IN ? AND timestamp >= ? AND timestamp < ?",
			q.Station, q.Parameters, q.From.UTC(), endOfDay(q.To).UTC()).
		Order("timestamp").
		Find(&rows).Error
	if err != nil {
		return timeseries.Frame{}, err
	}
	if len(rows) == 0 {
		return timeseries.Frame{}, ErrNotFound
	}

	byParam := make(map[string][]timeseries.Point)
	for _, r := range rows {
		byParam[r.Parameter] = append(byParam[r.Parameter], timeseries.Point{Time: r.Timestamp, Value: valueOf(r.Value)})
	}
	series := make([]timeseries.Series, 0, len(q.Parameters))
	for _, p := range q.Parameters {
		if pts, ok := byParam[p]; ok {
			series = append(series, timeseries.Series{Name: p, Points: pts})
		}
	}
	return timeseries.FromSeries(series), nil
}

// endOfDay returns the start of the day after t; query ranges are inclusive
// of whole days.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func valueOf(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
