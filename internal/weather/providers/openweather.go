package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/stargazing-finder/internal/geo"
	"github.com/i474232898/stargazing-finder/internal/weather"
)

// DefaultOneCallURL is the OpenWeather One Call 3.0 endpoint.
const DefaultOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"

// OpenWeatherProvider implements the weather.Provider interface for the
// OpenWeather One Call API (current, hourly and daily astronomy data).
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	lang    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// Option customizes an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at another endpoint, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) { p.baseURL = u }
}

// WithLanguage sets the response language.
func WithLanguage(lang string) Option {
	return func(p *OpenWeatherProvider) { p.lang = lang }
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		lang:    "en",
		baseURL: DefaultOneCallURL,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type oneCallPayload struct {
	Current *struct {
		Dt     int64 `json:"dt"`
		Clouds *int  `json:"clouds"`
	} `json:"current"`
	Hourly []struct {
		Dt     int64 `json:"dt"`
		Clouds int   `json:"clouds"`
	} `json:"hourly"`
	Daily []struct {
		Moonrise  int64    `json:"moonrise"`
		Moonset   int64    `json:"moonset"`
		MoonPhase *float64 `json:"moon_phase"`
	} `json:"daily"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, at geo.Coordinates) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrFetchFailed)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
		values.Set("exclude", "minutely,alerts")
		values.Set("appid", p.apiKey)
		values.Set("lang", p.lang)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload oneCallPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %v: %v", weather.ErrFetchFailed, errMalformed, err)
	}

	return p.toSnapshot(at, payload)
}

func (p *OpenWeatherProvider) toSnapshot(at geo.Coordinates, payload oneCallPayload) (weather.Snapshot, error) {
	if payload.Current == nil || payload.Current.Clouds == nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %v: current.clouds missing", weather.ErrFetchFailed, errMalformed)
	}
	if len(payload.Daily) == 0 || payload.Daily[0].MoonPhase == nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %v: daily[0].moon_phase missing", weather.ErrFetchFailed, errMalformed)
	}

	clouds := *payload.Current.Clouds
	phase := *payload.Daily[0].MoonPhase
	if clouds < 0 || clouds > 100 || phase < 0 || phase > 1 {
		return weather.Snapshot{}, fmt.Errorf("%w: %v: clouds=%d moon_phase=%v out of range",
			weather.ErrFetchFailed, errMalformed, clouds, phase)
	}

	fetched := time.Now().UTC()
	if payload.Current.Dt > 0 {
		fetched = time.Unix(payload.Current.Dt, 0).UTC()
	}

	hourly := make([]weather.HourlyCloud, 0, len(payload.Hourly))
	for _, h := range payload.Hourly {
		hourly = append(hourly, weather.HourlyCloud{
			Time:     time.Unix(h.Dt, 0).UTC(),
			CloudPct: h.Clouds,
		})
	}

	return weather.Snapshot{
		Coordinates: at,
		Provider:    p.name,
		FetchedAt:   fetched,
		CloudPct:    clouds,
		MoonPhase:   phase,
		Moonrise:    unixOrNil(payload.Daily[0].Moonrise),
		Moonset:     unixOrNil(payload.Daily[0].Moonset),
		Hourly:      hourly,
	}, nil
}

// unixOrNil converts epoch seconds; OpenWeather reports 0 when the event does not occur.
func unixOrNil(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
