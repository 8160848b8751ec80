package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/geocode"
	"github.com/i474232898/stargazing-finder/internal/report"
	"github.com/i474232898/stargazing-finder/internal/sky"
)

var validate = validator.New()

// Options tune rendering of search responses.
type Options struct {
	HourlyHours int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// locator may be nil, in which case place-name searches are rejected.
func RegisterRoutes(app *fiber.App, f *finder.Finder, locator *geocode.Locator, opts Options) {
	v1 := app.Group("/api/v1")

	v1.Get("/sites", func(c *fiber.Ctx) error {
		return c.JSON(f.Catalog())
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bind(c, f.Model()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		q := req.toQuery()
		if q.Lat == nil && q.Lon == nil && req.Place != "" {
			at, err := locator.Resolve(req.Place)
			if err != nil {
				if errors.Is(err, geocode.ErrDisabled) {
					return fiber.NewError(fiber.StatusBadRequest, "place search is not available; send lat and lon")
				}
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			q.Lat, q.Lon = &at.Lat, &at.Lon
		}

		res, err := f.Search(c.UserContext(), q)
		if err != nil {
			if errors.Is(err, finder.ErrInvalidQuery) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "search failed")
		}

		loc := time.UTC
		if req.TZ != "" {
			// validated above
			loc, _ = time.LoadLocation(req.TZ)
		}

		return c.JSON(report.Build(res, report.Options{
			Location:    loc,
			HourlyHours: opts.HourlyHours,
		}))
	})

	v1.Get("/thresholds/describe", func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bindThresholds(c, f.Model()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.StructPartial(req, "MinQuality", "MinClear"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(report.DescribeThresholds(f.Model(), req.MinQuality, req.MinClear))
	})
}

// searchQuery holds query parameters for the search endpoint.
// Coordinates are range-checked by the finder.
type searchQuery struct {
	Lat        *float64
	Lon        *float64
	Place      string  `validate:"max=200"`
	MinQuality float64 `validate:"gte=0,lte=30"`
	MinClear   int     `validate:"gte=0,lte=100"`
	TZ         string  `validate:"omitempty,timezone"`
}

func (q *searchQuery) bind(c *fiber.Ctx, m sky.Model) error {
	var err error
	if q.Lat, err = parseOptionalFloat(c.Query("lat"), "lat"); err != nil {
		return err
	}
	if q.Lon, err = parseOptionalFloat(c.Query("lon"), "lon"); err != nil {
		return err
	}
	q.Place = strings.TrimSpace(c.Query("place"))
	q.TZ = c.Query("tz")
	return q.bindThresholds(c, m)
}

func (q *searchQuery) bindThresholds(c *fiber.Ctx, m sky.Model) error {
	q.MinQuality = m.DefaultThreshold()
	if v := c.Query("min_quality"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New("min_quality must be a number")
		}
		q.MinQuality = f
	}

	q.MinClear = sky.DefaultClearThreshold
	if v := c.Query("min_clear"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("min_clear must be an integer")
		}
		q.MinClear = n
	}
	return nil
}

func (q searchQuery) toQuery() finder.Query {
	return finder.Query{
		Lat:        q.Lat,
		Lon:        q.Lon,
		MinQuality: q.MinQuality,
		MinClear:   q.MinClear,
	}
}

func parseOptionalFloat(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &f, nil
}
