// Package finder ranks catalog sites by distance among those whose live sky
// conditions meet the user's thresholds.
package finder

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/stargazing-finder/internal/catalog"
	"github.com/i474232898/stargazing-finder/internal/geo"
	"github.com/i474232898/stargazing-finder/internal/metrics"
	"github.com/i474232898/stargazing-finder/internal/sky"
	"github.com/i474232898/stargazing-finder/internal/weather"
)

// ScopePolicy decides which catalog sites are considered at all.
type ScopePolicy string

const (
	// ScopeRadius keeps only sites within the search radius.
	ScopeRadius ScopePolicy = "radius"
	// ScopeRadiusOrExceptional also keeps sites beyond the radius whose
	// baseline darkness exceeds the exceptional threshold.
	ScopeRadiusOrExceptional ScopePolicy = "radius_or_exceptional"
)

// Gateway returns observing conditions for a coordinate pair.
// weather.Service satisfies it.
type Gateway interface {
	Conditions(ctx context.Context, at geo.Coordinates) (weather.Snapshot, error)
}

// Options configures a Finder.
type Options struct {
	Model               sky.Model
	Scope               ScopePolicy
	RadiusKm            float64
	ExceptionalDarkness float64
	TopN                int
	// Concurrency bounds parallel site fetches; 1 evaluates sites one at a time.
	Concurrency int
}

// DefaultOptions returns limiting magnitude within 500 km,
// three results, sequential fetches.
func DefaultOptions() Options {
	return Options{
		Model:               sky.ModelLimitingMagnitude,
		Scope:               ScopeRadius,
		RadiusKm:            500,
		ExceptionalDarkness: 7,
		TopN:                3,
		Concurrency:         1,
	}
}

// Validate validates the options.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Model, validation.Required, validation.In(sky.ModelLimitingMagnitude, sky.ModelSkyBrightness)),
		validation.Field(&o.Scope, validation.Required, validation.In(ScopeRadius, ScopeRadiusOrExceptional)),
		validation.Field(&o.RadiusKm, validation.Required, validation.Min(0.0)),
		validation.Field(&o.TopN, validation.Required, validation.Min(1)),
		validation.Field(&o.Concurrency, validation.Required, validation.Min(1)),
	)
}

// Candidate is a site that passed scoping and both thresholds for one query.
type Candidate struct {
	Site       catalog.Site     `json:"site"`
	DistanceKm float64          `json:"distanceKm"`
	Snapshot   weather.Snapshot `json:"snapshot"`
	SkyQuality float64          `json:"skyQuality"`
	StarIndex  int              `json:"starIndex"`
	Travel     Travel           `json:"travel"`
}

// Diagnostics counts sites through each pipeline stage of one search.
type Diagnostics struct {
	Catalog     int `json:"catalog"`
	Scoped      int `json:"scoped"`
	Prefiltered int `json:"prefiltered"` // dropped before any network call
	Fetched     int `json:"fetched"`
	Failed      int `json:"failed"`
	Survived    int `json:"survived"` // passed both thresholds, before truncation
}

// Result is the outcome of one search. An empty candidate list is a normal
// "no match" outcome, not an error.
type Result struct {
	SearchID    string      `json:"searchId"`
	Model       sky.Model   `json:"model"`
	Candidates  []Candidate `json:"candidates"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// NoMatch reports whether no site met the query.
func (r Result) NoMatch() bool {
	return len(r.Candidates) == 0
}

// Finder orchestrates catalog scoping, weather lookups, scoring and ranking.
type Finder struct {
	catalog *catalog.Catalog
	gateway Gateway
	opts    Options
	metrics *metrics.Collector
}

// New creates a Finder. The catalog's darkness scale must match the model.
// The collector may be nil.
func New(cat *catalog.Catalog, gateway Gateway, opts Options, collector *metrics.Collector) (*Finder, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("weather gateway is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid finder options: %w", err)
	}
	if want := ScaleFor(opts.Model); cat.Scale != want {
		return nil, fmt.Errorf("catalog %q uses scale %q but model %q needs %q", cat.Name, cat.Scale, opts.Model, want)
	}
	return &Finder{catalog: cat, gateway: gateway, opts: opts, metrics: collector}, nil
}

// ScaleFor returns the catalog darkness scale a model expects.
func ScaleFor(m sky.Model) catalog.Scale {
	if m == sky.ModelSkyBrightness {
		return catalog.ScaleSQM
	}
	return catalog.ScaleLevel
}

// Model returns the active sky-quality model.
func (f *Finder) Model() sky.Model {
	return f.opts.Model
}

// Catalog returns the site catalog being searched.
func (f *Finder) Catalog() *catalog.Catalog {
	return f.catalog
}

type scopedSite struct {
	site       catalog.Site
	distanceKm float64
}

// Search runs one ranking pass for the query.
func (f *Finder) Search(ctx context.Context, q Query) (Result, error) {
	start := time.Now()

	if err := q.Validate(); err != nil {
		f.metrics.RecordSearch("invalid", time.Since(start))
		return Result{}, err
	}
	origin := q.Origin()

	res := Result{
		SearchID:   uuid.NewString(),
		Model:      f.opts.Model,
		Candidates: []Candidate{},
	}
	diag := &res.Diagnostics
	diag.Catalog = len(f.catalog.Sites)

	scoped := f.scope(origin)
	diag.Scoped = len(scoped)

	pending := make([]scopedSite, 0, len(scoped))
	for _, s := range scoped {
		if f.opts.Model.UpperBound(s.site.Darkness) < q.MinQuality {
			diag.Prefiltered++
			continue
		}
		pending = append(pending, s)
	}

	log.Printf("DEBUG: search %s from %s: %d scoped, %d prefiltered", res.SearchID, origin.Key(), diag.Scoped, diag.Prefiltered)

	for _, c := range f.evaluate(ctx, pending) {
		if c == nil {
			diag.Failed++
			continue
		}
		diag.Fetched++

		if c.SkyQuality < q.MinQuality || c.StarIndex < q.MinClear {
			continue
		}
		res.Candidates = append(res.Candidates, *c)
	}

	rank(res.Candidates)
	diag.Survived = len(res.Candidates)
	if len(res.Candidates) > f.opts.TopN {
		res.Candidates = res.Candidates[:f.opts.TopN]
	}

	outcome := "match"
	if res.NoMatch() {
		outcome = "no_match"
	}
	f.metrics.AddSites("scoped", diag.Scoped)
	f.metrics.AddSites("prefiltered", diag.Prefiltered)
	f.metrics.AddSites("failed", diag.Failed)
	f.metrics.AddSites("survived", diag.Survived)
	f.metrics.RecordSearch(outcome, time.Since(start))

	log.Printf("INFO: search %s: %s (scoped=%d fetched=%d failed=%d survived=%d)",
		res.SearchID, outcome, diag.Scoped, diag.Fetched, diag.Failed, diag.Survived)

	return res, nil
}

// scope selects the sites considered for a search, in catalog order.
func (f *Finder) scope(origin geo.Coordinates) []scopedSite {
	out := make([]scopedSite, 0, len(f.catalog.Sites))
	for _, site := range f.catalog.Sites {
		d := geo.Distance(origin, site.Coordinates())

		inRadius := d <= f.opts.RadiusKm
		exceptional := f.opts.Scope == ScopeRadiusOrExceptional && site.Darkness > f.opts.ExceptionalDarkness
		if inRadius || exceptional {
			out = append(out, scopedSite{site: site, distanceKm: d})
		}
	}
	return out
}

// evaluate fetches conditions and scores each site. The returned slice is
// aligned with sites; a nil entry marks a failed fetch. One site's failure
// never affects another's evaluation.
func (f *Finder) evaluate(ctx context.Context, sites []scopedSite) []*Candidate {
	out := make([]*Candidate, len(sites))

	if f.opts.Concurrency <= 1 {
		for i, s := range sites {
			out[i] = f.evaluateOne(ctx, s)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(f.opts.Concurrency)
	for i, s := range sites {
		g.Go(func() error {
			out[i] = f.evaluateOne(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (f *Finder) evaluateOne(ctx context.Context, s scopedSite) *Candidate {
	snap, err := f.gateway.Conditions(ctx, s.site.Coordinates())
	if err != nil {
		log.Printf("INFO: skipping site %q: %v", s.site.Name, err)
		return nil
	}

	return &Candidate{
		Site:       s.site,
		DistanceKm: s.distanceKm,
		Snapshot:   snap,
		SkyQuality: f.opts.Model.Estimate(s.site.Darkness, snap.CloudPct, snap.MoonPhase),
		StarIndex:  sky.ClearSkyIndex(snap.CloudPct),
		Travel:     EstimateTravel(s.distanceKm),
	}
}

// rank sorts nearest first; equal distances fall back to site name so the
// order never depends on catalog layout.
func rank(cs []Candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].DistanceKm != cs[j].DistanceKm {
			return cs[i].DistanceKm < cs[j].DistanceKm
		}
		return cs[i].Site.Name < cs[j].Site.Name
	})
}
