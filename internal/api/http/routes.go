package httpapi

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/referential"
	"github.com/i474232898/airquality-figures/internal/render"
	"github.com/i474232898/airquality-figures/internal/report"
	"github.com/i474232898/airquality-figures/internal/store"
	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Figures are
// built by builder; raw series and station lists are read from source.
func RegisterRoutes(app *fiber.App, source report.DataSource, builder *report.Builder) {
	v1 := app.Group("/api/v1")
	ref := builder.Referential()
	loc := builder.Location()

	v1.Get("/referential/pollutants", func(c *fiber.Ctx) error {
		pollutants := make([]referential.Pollutant, 0, len(ref.Pollutants))
		for _, code := range ref.PollutantCodes() {
			pollutants = append(pollutants, ref.Pollutants[code])
		}
		return c.JSON(pollutants)
	})

	v1.Get("/referential/check", func(c *fiber.Ctx) error {
		issues := ref.Check()
		return c.JSON(fiber.Map{
			"consistent": len(issues) == 0,
			"issues":     issues,
		})
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		filter := measures.Filter{Network: c.Query("network"), Codes: splitList(c.Query("codes"))}
		if filter.Network == "" && len(filter.Codes) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "network or codes query parameter is required")
		}
		infos, err := source.ListMeasures(c.UserContext(), filter)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(infos)
	})

	v1.Get("/series", func(c *fiber.Ctx) error {
		var q seriesQuery
		if err := bind(c, &q); err != nil {
			return err
		}
		from, to, err := window(q.Period, q.From, q.To, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		freq := timeseries.Hourly
		if q.Freq != "" {
			if freq, err = timeseries.ParseFrequency(q.Freq); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		frame, err := source.FetchMeasures(c.UserContext(), measures.Query{
			Codes:     splitList(q.Codes),
			From:      from,
			To:        to,
			Frequency: freq,
		})
		if err != nil {
			return statusError(err)
		}
		return c.JSON(fiber.Map{
			"from":      from,
			"to":        to,
			"frequency": freq,
			"frame":     frame,
		})
	})

	figures := v1.Group("/figures")

	figures.Get("/measures", func(c *fiber.Ctx) error {
		var q measuresQuery
		if err := bind(c, &q); err != nil {
			return err
		}
		req, err := q.request(loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		chart, err := builder.Measures(c.UserContext(), req)
		if err != nil {
			return statusError(err)
		}
		return sendPNG(c, chart.Figure)
	})

	figures.Get("/history", func(c *fiber.Ctx) error {
		var q historyQuery
		if err := bind(c, &q); err != nil {
			return err
		}
		req, err := q.request(time.Now().In(loc))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		chart, err := builder.History(c.UserContext(), req)
		if err != nil {
			return statusError(err)
		}
		return sendPNG(c, chart.Figure)
	})

	figures.Get("/meteo", func(c *fiber.Ctx) error {
		var q meteoQuery
		if err := bind(c, &q); err != nil {
			return err
		}
		req, err := q.request(loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		chart, err := builder.Meteo(c.UserContext(), req)
		if err != nil {
			return statusError(err)
		}
		return sendPNG(c, chart.Figure)
	})
}

// bind parses the query string into q and validates it.
func bind(c *fiber.Ctx, q any) error {
	if err := c.QueryParser(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func sendPNG(c *fiber.Ctx, fig render.Figure) error {
	var buf bytes.Buffer
	if err := render.Render(fig, &buf); err != nil {
		return statusError(err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

// statusError maps a pipeline error to an HTTP error: bad input is a 400,
// missing data a 404 and anything coming from upstream a 502.
func statusError(err error) error {
	switch {
	case measures.IsInvalidQuery(err),
		errors.Is(err, referential.ErrUnknownPollutant),
		errors.Is(err, referential.ErrUnknownGroup),
		errors.Is(err, referential.ErrUnknownParameter),
		errors.Is(err, referential.ErrUndefinedThreshold),
		errors.Is(err, report.ErrNoCodes),
		errors.Is(err, report.ErrCumulativeNeedsRainfall),
		errors.Is(err, render.ErrUnknownSize):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, report.ErrNoData),
		errors.Is(err, referential.ErrNoHistory),
		errors.Is(err, referential.ErrUnknownStation),
		errors.Is(err, render.ErrEmptyFigure),
		errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, measures.ErrNoSource):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
