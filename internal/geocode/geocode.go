// Package geocode resolves a free-text place name into coordinates so users can
// search without sharing their device position.
package geocode

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/stargazing-finder/internal/geo"
)

var (
	// ErrDisabled is returned when no geocoding API key is configured.
	ErrDisabled = errors.New("geocoding is not configured")
	// ErrNoResult is returned when the place cannot be resolved.
	ErrNoResult = errors.New("place not found")
)

// lookupFunc matches geocoder.Geocoding so tests can swap the network call.
type lookupFunc func(geocoder.Address) (geocoder.Location, error)

// Locator resolves place names with the Google Geocoding API.
type Locator struct {
	lookup lookupFunc
}

var setKey sync.Once

// NewLocator returns a Locator, or nil when apiKey is empty.
// The geocoder library keeps its key in a package variable, so the first
// non-empty key wins for the process.
func NewLocator(apiKey string) *Locator {
	if apiKey == "" {
		return nil
	}
	setKey.Do(func() { geocoder.ApiKey = apiKey })
	return &Locator{lookup: geocoder.Geocoding}
}

// Resolve returns the coordinates of a place such as "Kashiwa, Japan".
func (l *Locator) Resolve(place string) (geo.Coordinates, error) {
	if l == nil {
		return geo.Coordinates{}, ErrDisabled
	}
	place = strings.TrimSpace(place)
	if place == "" {
		return geo.Coordinates{}, fmt.Errorf("%w: empty place", ErrNoResult)
	}

	loc, err := l.lookup(addressFor(place))
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: %s: %v", ErrNoResult, place, err)
	}

	c := geo.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}
	if err := c.Validate(); err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: %s: %v", ErrNoResult, place, err)
	}
	return c, nil
}

// addressFor splits "City, Country" the same way users type it.
func addressFor(place string) geocoder.Address {
	parts := strings.Split(place, ",")
	addr := geocoder.Address{City: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		addr.Country = strings.TrimSpace(parts[len(parts)-1])
	}
	if len(parts) > 2 {
		addr.State = strings.TrimSpace(parts[1])
	}
	return addr
}
