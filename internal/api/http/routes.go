package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-analysis/internal/analysis"
	"github.com/i474232898/temperature-analysis/internal/live"
	"github.com/i474232898/temperature-analysis/internal/monitor"
	"github.com/i474232898/temperature-analysis/internal/store"
)

var validate = validator.New()

// baselineRow pairs a historical reading with its rolling statistic.
type baselineRow struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperatureC"`
	MovingMean  *float64  `json:"movingMean"` // null in the warm-up region
	MovingStd   *float64  `json:"movingStd"`  // null in the warm-up region
	IsAnomaly   bool      `json:"isAnomaly"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, dataStore *store.MemoryStore, mon *monitor.Monitor) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cities": dataStore.Cities(),
		})
	})

	v1.Get("/analysis/baseline", func(c *fiber.Ctx) error {
		req, err := parseAnalysisQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := analyzeCity(dataStore, req)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"city":   req.City,
			"window": req.Window,
			"sigma":  req.Sigma,
			"points": rows,
		})
	})

	v1.Get("/analysis/anomalies", func(c *fiber.Ctx) error {
		req, err := parseAnalysisQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := analyzeCity(dataStore, req)
		if err != nil {
			return err
		}

		anomalies := make([]baselineRow, 0)
		for _, row := range rows {
			if row.IsAnomaly {
				anomalies = append(anomalies, row)
			}
		}

		return c.JSON(fiber.Map{
			"city":      req.City,
			"window":    req.Window,
			"sigma":     req.Sigma,
			"anomalies": anomalies,
		})
	})

	v1.Get("/seasons/stats", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"stats": mon.SeasonalStats(),
		})
	})

	v1.Get("/live/assessment", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		rec, err := mon.Evaluate(c.Context(), city)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "unknown city")
			case errors.Is(err, analysis.ErrMissingSeasonalStat):
				return fiber.NewError(fiber.StatusNotFound, "no seasonal statistics for the city's current season")
			case errors.Is(err, live.ErrUnavailable):
				return fiber.NewError(fiber.StatusBadGateway, "live temperature reading unavailable")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to evaluate live temperature")
			}
		}

		return c.JSON(rec)
	})

	v1.Get("/live/history", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		history, err := dataStore.AssessmentHistory(city)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no assessments recorded for city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch assessment history")
		}

		return c.JSON(fiber.Map{
			"city":        city,
			"assessments": history,
		})
	})
}

// analyzeCity runs the rolling analysis for one city and renders rows.
func analyzeCity(dataStore *store.MemoryStore, req analysisQuery) ([]baselineRow, error) {
	series, err := dataStore.GetSeries(req.City)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "unknown city")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch series")
	}

	points, err := analysis.AnalyzeSeries(series, req.Window, req.Sigma)
	if err != nil {
		// Window and sigma were validated already; anything here is unexpected.
		return nil, fiber.NewError(fiber.StatusInternalServerError, "analysis failed")
	}

	rows := make([]baselineRow, len(points))
	for i, p := range points {
		row := baselineRow{
			Timestamp:   series[i].Timestamp,
			Temperature: series[i].Temperature,
			IsAnomaly:   p.IsAnomaly,
		}
		if p.Defined {
			mean, std := p.MovingMean, p.MovingStd
			row.MovingMean = &mean
			row.MovingStd = &std
		}
		rows[i] = row
	}
	return rows, nil
}

// analysisQuery holds query parameters for the analysis endpoints.
type analysisQuery struct {
	City   string  `validate:"required"`
	Window int     `validate:"gte=1"`
	Sigma  float64 `validate:"gte=0"`
}

func parseAnalysisQuery(c *fiber.Ctx) (analysisQuery, error) {
	q := analysisQuery{
		City:   c.Query("city"),
		Window: analysis.DefaultWindow,
		Sigma:  analysis.DefaultSigma,
	}

	if raw := c.Query("window"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid window; must be an integer >= 1")
		}
		q.Window = w
	}

	if raw := c.Query("k"); raw != "" {
		k, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, errors.New("invalid k; must be a number >= 0")
		}
		q.Sigma = k
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}
