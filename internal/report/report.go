// Package report renders finder results into the view the presentation layer shows.
package report

import (
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/sky"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// NoMatchMessage is shown when no site meets the thresholds.
const NoMatchMessage = "No site matches your conditions right now. Try relaxing the thresholds and search again."

// Options control rendering.
type Options struct {
	// Location is the display timezone for hourly forecasts and moon times.
	Location *time.Location
	// HourlyHours is the number of forecast hours to include per site.
	HourlyHours int
	// Now is the reference time for the hourly slice.
	Now time.Time
}

// Hour is one entry of the rendered hourly forecast.
type Hour struct {
	Time       time.Time `json:"time"`
	CloudPct   int       `json:"cloudPercent"`
	ClearIndex int       `json:"clearSkyIndex"`
}

// Site is one rendered recommendation.
type Site struct {
	Rank       int           `json:"rank"`
	Name       string        `json:"name"`
	Lat        float64       `json:"lat"`
	Lon        float64       `json:"lon"`
	DistanceKm float64       `json:"distanceKm"`
	Travel     finder.Travel `json:"travel"`
	TravelText string        `json:"travelText"`
	SkyQuality float64       `json:"skyQuality"`
	SkyUnit    string        `json:"skyUnit"`
	SkyText    string        `json:"skyDescription"`
	StarIndex  int           `json:"clearSkyIndex"`
	StarText   string        `json:"clearSkyDescription"`
	CloudPct   int           `json:"cloudPercent"`
	Moon       sky.MoonPhase `json:"moon"`
	MoonPhase  float64       `json:"moonPhase"`
	Moonrise   *time.Time    `json:"moonrise,omitempty"`
	Moonset    *time.Time    `json:"moonset,omitempty"`
	Hourly     []Hour        `json:"hourly,omitempty"`
	MapQuery   string        `json:"mapQuery"`
	MapURL     string        `json:"mapUrl"`
}

// Report is the full rendered outcome of a search.
type Report struct {
	SearchID    string             `json:"searchId"`
	Match       bool               `json:"match"`
	Message     string             `json:"message,omitempty"`
	Model       sky.Model          `json:"model"`
	Timezone    string             `json:"timezone"`
	Sites       []Site             `json:"sites"`
	Diagnostics finder.Diagnostics `json:"diagnostics"`
}

// Build renders a finder result.
func Build(res finder.Result, opts Options) Report {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	r := Report{
		SearchID:    res.SearchID,
		Match:       !res.NoMatch(),
		Model:       res.Model,
		Timezone:    loc.String(),
		Sites:       make([]Site, 0, len(res.Candidates)),
		Diagnostics: res.Diagnostics,
	}
	if res.NoMatch() {
		r.Message = NoMatchMessage
		return r
	}

	for i, c := range res.Candidates {
		snap := c.Snapshot
		mapQuery := c.Site.Coordinates().MapQuery()

		s := Site{
			Rank:       i + 1,
			Name:       c.Site.Name,
			Lat:        c.Site.Lat,
			Lon:        c.Site.Lon,
			DistanceKm: round1(c.DistanceKm),
			Travel:     finder.Travel{Mode: c.Travel.Mode, Hours: round1(c.Travel.Hours)},
			TravelText: DescribeTravel(c.Travel),
			SkyQuality: round2(c.SkyQuality),
			SkyUnit:    res.Model.Unit(),
			SkyText:    res.Model.Describe(c.SkyQuality),
			StarIndex:  c.StarIndex,
			StarText:   sky.DescribeClearSky(c.StarIndex),
			CloudPct:   snap.CloudPct,
			Moon:       sky.DescribeMoon(snap.MoonPhase),
			MoonPhase:  snap.MoonPhase,
			Moonrise:   inLocation(snap.Moonrise, loc),
			Moonset:    inLocation(snap.Moonset, loc),
			MapQuery:   mapQuery,
			MapURL:     mapsSearchURL + url.QueryEscape(mapQuery),
		}
		for _, h := range snap.HourlyFrom(now, opts.HourlyHours) {
			s.Hourly = append(s.Hourly, Hour{
				Time:       h.Time.In(loc),
				CloudPct:   h.CloudPct,
				ClearIndex: sky.ClearSkyIndex(h.CloudPct),
			})
		}
		r.Sites = append(r.Sites, s)
	}
	return r
}

// DescribeTravel renders a travel estimate, naming the transport mode.
func DescribeTravel(t finder.Travel) string {
	h := int(t.Hours)
	m := int(math.Round((t.Hours - float64(h)) * 60))
	if m == 60 {
		h, m = h+1, 0
	}
	switch t.Mode {
	case finder.TravelAir:
		return fmt.Sprintf("about %dh %02dm by plane, including airport time", h, m)
	default:
		return fmt.Sprintf("about %dh %02dm by car", h, m)
	}
}

// Thresholds describes what the user's chosen thresholds mean before searching.
type Thresholds struct {
	MinQuality  float64 `json:"minQuality"`
	QualityText string  `json:"qualityDescription"`
	MinClear    int     `json:"minClear"`
	ClearText   string  `json:"clearSkyDescription"`
}

// DescribeThresholds explains a pair of thresholds under the model.
func DescribeThresholds(m sky.Model, minQuality float64, minClear int) Thresholds {
	return Thresholds{
		MinQuality:  minQuality,
		QualityText: m.Describe(minQuality),
		MinClear:    minClear,
		ClearText:   sky.DescribeClearSky(minClear),
	}
}

func inLocation(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
