package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/sky"
)

func TestFromEnvMissingAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")
	if _, err := FromEnv(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != sky.ModelLimitingMagnitude || cfg.Catalog != "kanto" {
		t.Errorf("model/catalog = %q/%q", cfg.Model, cfg.Catalog)
	}
	if cfg.Scope != finder.ScopeRadius || cfg.RadiusKm != 500 || cfg.TopN != 3 {
		t.Errorf("unexpected search defaults: %+v", cfg)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v; want 10m", cfg.CacheTTL)
	}
	if cfg.FetchConcurrency != 1 {
		t.Errorf("FetchConcurrency = %d; want 1", cfg.FetchConcurrency)
	}
}

func TestFromEnvSkyBrightnessDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("SKY_MODEL", "sky_brightness")
	t.Setenv("SCOPE_POLICY", "radius_or_exceptional")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog != "darksky" || cfg.ExceptionalDarkness != 21.7 {
		t.Errorf("catalog/exceptional = %q/%v", cfg.Catalog, cfg.ExceptionalDarkness)
	}
	opts := cfg.FinderOptions()
	if opts.Model != sky.ModelSkyBrightness || opts.Scope != finder.ScopeRadiusOrExceptional {
		t.Errorf("unexpected finder options: %+v", opts)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	cases := []struct {
		name, key, value, wantMsg string
	}{
		{"unknown model", "SKY_MODEL", "bortle", "SKY_MODEL"},
		{"unknown scope", "SCOPE_POLICY", "everywhere", "Scope"},
		{"bad radius", "SEARCH_RADIUS_KM", "far", "SEARCH_RADIUS_KM"},
		{"bad ttl", "CACHE_TTL", "soon", "CACHE_TTL"},
		{"too much concurrency", "FETCH_CONCURRENCY", "100", "FetchConcurrency"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OPENWEATHER_API_KEY", "secret")
			t.Setenv(tc.key, tc.value)

			_, err := FromEnv()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}
