package weather

import (
	"context"
	"errors"

	"github.com/i474232898/stargazing-finder/internal/geo"
)

// ErrFetchFailed marks any failure to obtain a snapshot: transport errors,
// non-2xx responses and payloads missing required fields alike. Callers treat
// it as "skip this site", never as fatal.
var ErrFetchFailed = errors.New("weather fetch failed")

// Provider abstracts a weather/astronomy data source (e.g. OpenWeather One Call).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, at geo.Coordinates) (Snapshot, error)
}

// Store is the contract the snapshot cache must satisfy.
// GetLatest hands out a copy whose Hourly slice and moon times are not shared
// with the cached entry.
type Store interface {
	SaveSnapshot(at geo.Coordinates, snapshot Snapshot)
	GetLatest(at geo.Coordinates) (Snapshot, error)
}
