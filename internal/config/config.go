package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"

	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/sky"
)

// ErrMissingAPIKey is a fatal startup condition: no search can run without it.
var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY is not set")

type AppConfig struct {
	OpenWeatherAPIKey string
	// GeocoderAPIKey enables resolving place names; optional.
	GeocoderAPIKey string
	WeatherLang    string

	Model sky.Model
	Scope finder.ScopePolicy
	// Catalog is an embedded catalog name or a path to a YAML file.
	// Empty selects the default catalog for the model.
	Catalog string

	RadiusKm            float64
	ExceptionalDarkness float64
	TopN                int
	FetchConcurrency    int
	HourlyHours         int

	// CacheTTL is how long a fetched snapshot is reused for the same coordinates.
	CacheTTL           time.Duration
	CachePurgeInterval time.Duration
	HTTPTimeout        time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.WeatherLang = getenvDefault("WEATHER_LANG", "en")

	model, err := sky.ParseModel(getenvDefault("SKY_MODEL", string(sky.ModelLimitingMagnitude)))
	if err != nil {
		return nil, fmt.Errorf("invalid SKY_MODEL: %w", err)
	}
	cfg.Model = model
	cfg.Scope = finder.ScopePolicy(getenvDefault("SCOPE_POLICY", string(finder.ScopeRadius)))
	cfg.Catalog = getenvDefault("CATALOG", defaultCatalog(model))

	if cfg.RadiusKm, err = getenvFloat("SEARCH_RADIUS_KM", 500); err != nil {
		return nil, err
	}
	if cfg.ExceptionalDarkness, err = getenvFloat("EXCEPTIONAL_DARKNESS", defaultExceptional(model)); err != nil {
		return nil, err
	}
	cfg.TopN = getenvInt("TOP_N", 3)
	cfg.FetchConcurrency = getenvInt("FETCH_CONCURRENCY", 1)
	cfg.HourlyHours = getenvInt("HOURLY_HOURS", 12)

	// Snapshot cache: default 10 minutes, purged every 5.
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.CachePurgeInterval, err = getenvDuration("CACHE_PURGE_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OpenWeatherAPIKey, validation.Required),
		validation.Field(&c.Scope, validation.Required, validation.In(finder.ScopeRadius, finder.ScopeRadiusOrExceptional)),
		validation.Field(&c.Catalog, validation.Required),
		validation.Field(&c.RadiusKm, validation.Required, validation.Min(0.0)),
		validation.Field(&c.TopN, validation.Required, validation.Min(1)),
		validation.Field(&c.FetchConcurrency, validation.Required, validation.Min(1), validation.Max(32)),
		validation.Field(&c.HourlyHours, validation.Min(0), validation.Max(48)),
		validation.Field(&c.CacheTTL, validation.Required),
		validation.Field(&c.CachePurgeInterval, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.HTTPTimeout, validation.Required),
		validation.Field(&c.Port, validation.Required),
	)
}

// FinderOptions maps the configuration onto ranker options.
func (c *AppConfig) FinderOptions() finder.Options {
	return finder.Options{
		Model:               c.Model,
		Scope:               c.Scope,
		RadiusKm:            c.RadiusKm,
		ExceptionalDarkness: c.ExceptionalDarkness,
		TopN:                c.TopN,
		Concurrency:         c.FetchConcurrency,
	}
}

func defaultCatalog(m sky.Model) string {
	if m == sky.ModelSkyBrightness {
		return "darksky"
	}
	return "kanto"
}

// defaultExceptional is the baseline darkness from which a site is shown
// regardless of distance under the radius_or_exceptional policy.
func defaultExceptional(m sky.Model) float64 {
	if m == sky.ModelSkyBrightness {
		return 21.7
	}
	return 7
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
