package httpapi

import (
	"time"

	"github.com/i474232898/airquality-figures/internal/common"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/report"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

func window(period, from, to string, loc *time.Location) (time.Time, time.Time, error) {
	return common.Window(period, from, to, time.Now(), loc)
}

type seriesQuery struct {
	From   string `query:"from" validate:"required_without=Period"`
	To     string `query:"to"`
	Period string `query:"period" validate:"omitempty,oneof=previous-day previous-month previous-year current-month"`
	Codes  string `query:"codes" validate:"required"`
	Freq   string `query:"freq"`
}

type measuresQuery struct {
	From          string  `query:"from" validate:"required_without=Period"`
	To            string  `query:"to"`
	Period        string  `query:"period" validate:"omitempty,oneof=previous-day previous-month previous-year current-month"`
	Size          string  `query:"size" validate:"omitempty,oneof=L S"`
	YMax          float64 `query:"ymax" validate:"gte=0"`
	MarkerSize    float64 `query:"marker_size" validate:"gte=0,lte=20"`
	LegendColumns int     `query:"legend_columns" validate:"gte=0,lte=6"`
	Pollutant     string  `query:"pollutant" validate:"required"`
	Codes         string  `query:"codes" validate:"required_without=Network"`
	Network       string  `query:"network"`
	Freq          string  `query:"freq"`
	Rolling       int     `query:"rolling" validate:"gte=0,lte=744"`
	ValidRatio    float64 `query:"valid_ratio" validate:"gte=0,lte=1"`
	DailyMax      bool    `query:"daily_max"`
	AnnualMax     bool    `query:"annual_max"`
	Thresholds    string  `query:"thresholds"`
}

func (q measuresQuery) request(loc *time.Location) (report.MeasuresRequest, error) {
	from, to, err := window(q.Period, q.From, q.To, loc)
	if err != nil {
		return report.MeasuresRequest{}, err
	}
	var freq timeseries.Frequency
	if q.Freq != "" {
		if freq, err = timeseries.ParseFrequency(q.Freq); err != nil {
			return report.MeasuresRequest{}, err
		}
	}
	sel, err := report.ParseSelection([]string{q.Thresholds})
	if err != nil {
		return report.MeasuresRequest{}, err
	}
	size, err := render.ParseSize(q.Size)
	if err != nil {
		return report.MeasuresRequest{}, err
	}
	return report.MeasuresRequest{
		Groups:        []report.Group{{Pollutant: q.Pollutant, Codes: splitList(q.Codes), Network: q.Network}},
		From:          from,
		To:            to,
		Frequency:     freq,
		Rolling:       q.Rolling,
		ValidRatio:    q.ValidRatio,
		DailyMax:      q.DailyMax,
		AnnualMax:     q.AnnualMax,
		Thresholds:    sel,
		Size:          size,
		MarkerSize:    q.MarkerSize,
		LegendColumns: q.LegendColumns,
		YMax:          q.YMax,
	}, nil
}

type historyQuery struct {
	Size          string  `query:"size" validate:"omitempty,oneof=L S"`
	YMax          float64 `query:"ymax" validate:"gte=0"`
	MarkerSize    float64 `query:"marker_size" validate:"gte=0,lte=20"`
	LegendColumns int     `query:"legend_columns" validate:"gte=0,lte=6"`
	Pollutant     string  `query:"pollutant" validate:"required"`
	Year          int     `query:"year" validate:"omitempty,gte=1970,lte=2100"`
	Since         int     `query:"since" validate:"omitempty,gte=1970,lte=2100"`
	Thresholds    string  `query:"thresholds"`
}

func (q historyQuery) request(now time.Time) (report.HistoryRequest, error) {
	sel, err := report.ParseSelection([]string{q.Thresholds})
	if err != nil {
		return report.HistoryRequest{}, err
	}
	size := render.Small
	if q.Size != "" {
		if size, err = render.ParseSize(q.Size); err != nil {
			return report.HistoryRequest{}, err
		}
	}
	year := q.Year
	if year == 0 {
		year = now.Year() - 1
	}
	return report.HistoryRequest{
		Pollutant:     q.Pollutant,
		Year:          year,
		Since:         q.Since,
		Thresholds:    sel,
		Size:          size,
		MarkerSize:    q.MarkerSize,
		LegendColumns: q.LegendColumns,
		YMax:          q.YMax,
	}, nil
}

type meteoQuery struct {
	From          string  `query:"from" validate:"required_without=Period"`
	To            string  `query:"to"`
	Period        string  `query:"period" validate:"omitempty,oneof=previous-day previous-month previous-year current-month"`
	Size          string  `query:"size" validate:"omitempty,oneof=L S"`
	YMax          float64 `query:"ymax" validate:"gte=0"`
	MarkerSize    float64 `query:"marker_size" validate:"gte=0,lte=20"`
	LegendColumns int     `query:"legend_columns" validate:"gte=0,lte=6"`
	Station       string  `query:"station"`
	Params        string  `query:"params" validate:"required"`
	Cumul         bool    `query:"cumul"`
}

func (q meteoQuery) request(loc *time.Location) (report.MeteoRequest, error) {
	from, to, err := window(q.Period, q.From, q.To, loc)
	if err != nil {
		return report.MeteoRequest{}, err
	}
	size, err := render.ParseSize(q.Size)
	if err != nil {
		return report.MeteoRequest{}, err
	}
	return report.MeteoRequest{
		Station:       q.Station,
		Parameters:    splitList(q.Params),
		From:          from,
		To:            to,
		Cumulative:    q.Cumul,
		Size:          size,
		MarkerSize:    q.MarkerSize,
		LegendColumns: q.LegendColumns,
		YMax:          q.YMax,
	}, nil
}
