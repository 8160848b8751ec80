package finder

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/stargazing-finder/internal/geo"
)

// ErrInvalidQuery is returned when the user's position or thresholds are
// missing or out of range. No search is performed.
var ErrInvalidQuery = errors.New("invalid query")

var validate = validator.New()

// Query is one search action. Lat and Lon stay nil until the user has granted
// access to their position.
type Query struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`

	// MinQuality is the minimum effective sky quality in the active model's unit.
	MinQuality float64 `json:"minQuality" validate:"gte=0,lte=30"`
	// MinClear is the minimum clear-sky index, 0-100.
	MinClear int `json:"minClear" validate:"gte=0,lte=100"`
}

// NewQuery builds a query from known coordinates.
func NewQuery(lat, lon, minQuality float64, minClear int) Query {
	return Query{Lat: &lat, Lon: &lon, MinQuality: minQuality, MinClear: minClear}
}

// Validate reports input errors wrapped in ErrInvalidQuery.
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// Origin returns the user's position. Call only after Validate succeeded.
func (q Query) Origin() geo.Coordinates {
	return geo.Coordinates{Lat: *q.Lat, Lon: *q.Lon}
}
