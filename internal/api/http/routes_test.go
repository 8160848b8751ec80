package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/stargazing-finder/internal/catalog"
	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/geo"
	"github.com/i474232898/stargazing-finder/internal/report"
	"github.com/i474232898/stargazing-finder/internal/weather"
)

// clearGateway reports a clear sky and new moon everywhere unless failAll is set.
type clearGateway struct {
	failAll bool
	calls   int
}

func (g *clearGateway) Conditions(_ context.Context, at geo.Coordinates) (weather.Snapshot, error) {
	g.calls++
	if g.failAll {
		return weather.Snapshot{}, fmt.Errorf("%w: down", weather.ErrFetchFailed)
	}
	return weather.Snapshot{Coordinates: at, CloudPct: 5, MoonPhase: 0}, nil
}

func newTestApp(t *testing.T, gw finder.Gateway) *fiber.App {
	t.Helper()
	cat, err := catalog.Load("kanto")
	if err != nil {
		t.Fatal(err)
	}
	f, err := finder.New(cat, gw, finder.DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	app := fiber.New()
	RegisterRoutes(app, f, nil, Options{HourlyHours: 3})
	return app
}

func get(t *testing.T, app *fiber.App, url string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestSearchReturnsRankedSites(t *testing.T) {
	app := newTestApp(t, &clearGateway{})

	resp := get(t, app, "/api/v1/search?lat=35.8623&lon=139.9710&min_quality=4&min_clear=70&tz=Asia/Tokyo")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var rep report.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rep.Match || len(rep.Sites) == 0 {
		t.Fatalf("expected a match, got %+v", rep)
	}
	// Tega-numa scores 3.8 at 5% cloud, below the threshold.
	if rep.Sites[0].Name != "Mount Tsukuba (Tsutsujigaoka)" {
		t.Fatalf("nearest site = %q; want Mount Tsukuba (Tsutsujigaoka)", rep.Sites[0].Name)
	}
	for i := 1; i < len(rep.Sites); i++ {
		if rep.Sites[i-1].DistanceKm > rep.Sites[i].DistanceKm {
			t.Fatalf("sites not sorted by distance: %+v", rep.Sites)
		}
	}
	if rep.Timezone != "Asia/Tokyo" {
		t.Fatalf("timezone = %q", rep.Timezone)
	}
}

func TestSearchNoMatchIsNotAnError(t *testing.T) {
	gw := &clearGateway{failAll: true}
	app := newTestApp(t, gw)

	resp := get(t, app, "/api/v1/search?lat=35.8623&lon=139.9710")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var rep report.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Match || rep.Message != report.NoMatchMessage {
		t.Fatalf("expected no-match report, got %+v", rep)
	}
	if gw.calls == 0 {
		t.Fatal("expected the gateway to be consulted")
	}
}

func TestSearchInputErrors(t *testing.T) {
	gw := &clearGateway{}
	app := newTestApp(t, gw)

	cases := []string{
		"/api/v1/search",
		"/api/v1/search?lat=35.8&lon=abc",
		"/api/v1/search?lat=91&lon=139.9",
		"/api/v1/search?lat=35.8&lon=139.9&min_clear=101",
		"/api/v1/search?lat=35.8&lon=139.9&min_quality=-1",
		"/api/v1/search?lat=35.8&lon=139.9&tz=Mars/Olympus",
		// geocoding is not configured in tests
		"/api/v1/search?place=Kashiwa,Japan",
	}
	for _, url := range cases {
		resp := get(t, app, url)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", url, http.StatusBadRequest, resp.StatusCode)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("no site should be fetched for invalid input, got %d calls", gw.calls)
	}
}

func TestSitesListing(t *testing.T) {
	app := newTestApp(t, &clearGateway{})

	resp := get(t, app, "/api/v1/sites")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var cat catalog.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cat.Sites) != 5 {
		t.Fatalf("got %d sites; want 5", len(cat.Sites))
	}
}

func TestDescribeThresholds(t *testing.T) {
	app := newTestApp(t, &clearGateway{})

	resp := get(t, app, "/api/v1/thresholds/describe?min_quality=4.5&min_clear=95")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var th report.Thresholds
	if err := json.NewDecoder(resp.Body).Decode(&th); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if th.MinQuality != 4.5 || th.MinClear != 95 || th.QualityText == "" || th.ClearText == "" {
		t.Fatalf("unexpected thresholds: %+v", th)
	}

	resp = get(t, app, "/api/v1/thresholds/describe?min_clear=x")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
