package weather

import (
	"time"

	"github.com/i474232898/stargazing-finder/internal/geo"
)

// HourlyCloud is one entry of the hourly cloud-cover forecast.
type HourlyCloud struct {
	Time     time.Time `json:"time"` // always UTC
	CloudPct int       `json:"cloudPercent"`
}

// Snapshot is the normalized observing-conditions view for a coordinate pair.
// Snapshots are produced per query and replaced wholesale in the cache.
type Snapshot struct {
	Coordinates geo.Coordinates `json:"coordinates"`
	Provider    string          `json:"provider"`
	FetchedAt   time.Time       `json:"fetchedAt"` // always UTC

	CloudPct  int     `json:"cloudPercent"`
	MoonPhase float64 `json:"moonPhase"` // 0 and 1 new moon, 0.5 full moon

	// Moonrise and Moonset are nil when the moon does not rise or set that day.
	Moonrise *time.Time `json:"moonrise,omitempty"`
	Moonset  *time.Time `json:"moonset,omitempty"`

	// Hourly is ordered by Time ascending.
	Hourly []HourlyCloud `json:"hourly,omitempty"`
}

// HourlyFrom returns at most n hourly entries starting at or after from.
func (s Snapshot) HourlyFrom(from time.Time, n int) []HourlyCloud {
	if n <= 0 {
		return nil
	}
	out := make([]HourlyCloud, 0, n)
	for _, h := range s.Hourly {
		if h.Time.Before(from.Truncate(time.Hour)) {
			continue
		}
		out = append(out, h)
		if len(out) == n {
			break
		}
	}
	return out
}
