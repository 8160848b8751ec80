package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/i474232898/stargazing-finder/internal/catalog"
	"github.com/i474232898/stargazing-finder/internal/config"
	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/geocode"
	"github.com/i474232898/stargazing-finder/internal/report"
	"github.com/i474232898/stargazing-finder/internal/sky"
	"github.com/i474232898/stargazing-finder/internal/store"
	"github.com/i474232898/stargazing-finder/internal/weather"
	"github.com/i474232898/stargazing-finder/internal/weather/providers"
)

func main() {
	cmd := &cli.Command{
		Name:  "stargaze",
		Usage: "Find the nearest dark, clear site for stargazing tonight",
		Commands: []*cli.Command{
			searchCommand(),
			sitesCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Rank catalog sites by distance that meet the darkness and clear-sky thresholds",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lat", Usage: "Your latitude in degrees"},
			&cli.StringFlag{Name: "lon", Usage: "Your longitude in degrees"},
			&cli.StringFlag{Name: "place", Usage: "Place name to geocode instead of --lat/--lon", Sources: cli.EnvVars("STARGAZE_PLACE")},
			&cli.StringFlag{Name: "min-quality", Usage: "Minimum sky quality (default depends on SKY_MODEL)"},
			&cli.StringFlag{Name: "min-clear", Usage: "Minimum clear-sky index", Value: strconv.Itoa(sky.DefaultClearThreshold)},
			&cli.StringFlag{Name: "tz", Usage: "IANA timezone for times in the output", Value: "Local", Sources: cli.EnvVars("TZ")},
			&cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"},
		},
		Action: runSearch,
	}
}

func sitesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "List the sites of a catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Embedded catalog name or path to a YAML catalog",
				Value:   "kanto",
				Sources: cli.EnvVars("CATALOG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cat, err := catalog.Load(cmd.String("catalog"))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tLAT\tLON\tDARKNESS (%s)\n", cat.Scale)
			for _, s := range cat.Sites {
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%g\n", s.Name, s.Lat, s.Lon, s.Darkness)
			}
			return w.Flush()
		},
	}
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	q, err := buildQuery(cmd, cfg)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cmd.String("tz"))
	if err != nil {
		return fmt.Errorf("%w: tz: %v", finder.ErrInvalidQuery, err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithLanguage(cfg.WeatherLang))
	service := weather.NewService(store.NewMemoryStore(cfg.CacheTTL), provider, nil)

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}
	f, err := finder.New(cat, service, cfg.FinderOptions(), nil)
	if err != nil {
		return err
	}

	res, err := f.Search(ctx, q)
	if err != nil {
		return err
	}
	rep := report.Build(res, report.Options{Location: loc, HourlyHours: cfg.HourlyHours})

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(rep)
	return nil
}

func buildQuery(cmd *cli.Command, cfg *config.AppConfig) (finder.Query, error) {
	var q finder.Query

	minQuality := cfg.Model.DefaultThreshold()
	if v := cmd.String("min-quality"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, fmt.Errorf("%w: min-quality must be a number", finder.ErrInvalidQuery)
		}
		minQuality = f
	}
	minClear, err := strconv.Atoi(cmd.String("min-clear"))
	if err != nil {
		return q, fmt.Errorf("%w: min-clear must be an integer", finder.ErrInvalidQuery)
	}
	q.MinQuality, q.MinClear = minQuality, minClear

	if place := cmd.String("place"); place != "" && cmd.String("lat") == "" && cmd.String("lon") == "" {
		at, err := geocode.NewLocator(cfg.GeocoderAPIKey).Resolve(place)
		if err != nil {
			return q, err
		}
		q.Lat, q.Lon = &at.Lat, &at.Lon
		return q, nil
	}

	// Missing coordinates stay nil and are rejected by the finder.
	for _, c := range []struct {
		flag string
		dst  **float64
	}{{"lat", &q.Lat}, {"lon", &q.Lon}} {
		v := cmd.String(c.flag)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, fmt.Errorf("%w: %s must be a number", finder.ErrInvalidQuery, c.flag)
		}
		*c.dst = &f
	}
	return q, nil
}

func printReport(rep report.Report) {
	if !rep.Match {
		fmt.Println(rep.Message)
		return
	}
	for _, s := range rep.Sites {
		fmt.Printf("%d. %s (%.1f km, %s)\n", s.Rank, s.Name, s.DistanceKm, s.TravelText)
		fmt.Printf("   sky quality %.2f %s: %s\n", s.SkyQuality, s.SkyUnit, s.SkyText)
		fmt.Printf("   clear-sky index %d (cloud %d%%): %s\n", s.StarIndex, s.CloudPct, s.StarText)
		fmt.Printf("   moon: %s. %s\n", s.Moon.Name, s.Moon.Advice)
		if s.Moonrise != nil {
			fmt.Printf("   moonrise %s", s.Moonrise.Format("15:04"))
			if s.Moonset != nil {
				fmt.Printf(", moonset %s", s.Moonset.Format("15:04"))
			}
			fmt.Println()
		}
		for _, h := range s.Hourly {
			fmt.Printf("   %s  cloud %3d%%  index %3d\n", h.Time.Format("Mon 15:04"), h.CloudPct, h.ClearIndex)
		}
		fmt.Printf("   map: %s\n", s.MapURL)
	}
}
