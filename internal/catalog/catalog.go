// Package catalog loads the static list of candidate observing sites.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/stargazing-finder/internal/geo"
)

//go:embed data/*.yaml
var embedded embed.FS

// Scale is the unit of a catalog's baseline darkness values.
type Scale string

const (
	// ScaleLevel is a coarse integer darkness level, higher is darker.
	ScaleLevel Scale = "level"
	// ScaleSQM is a sky brightness in mag/arcsec², higher is darker.
	ScaleSQM Scale = "sqm"
)

// ErrUnknownCatalog is returned when neither an embedded catalog nor a file matches.
var ErrUnknownCatalog = errors.New("unknown catalog")

// Site is a named observing location with its weather-independent darkness.
type Site struct {
	Name     string  `yaml:"name" json:"name"`
	Lat      float64 `yaml:"lat" json:"lat"`
	Lon      float64 `yaml:"lon" json:"lon"`
	Darkness float64 `yaml:"darkness" json:"baselineDarkness"`
}

// Coordinates returns the site position.
func (s Site) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: s.Lat, Lon: s.Lon}
}

// Validate validates a single catalog entry.
func (s *Site) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&s.Lon, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&s.Darkness, validation.Min(0.0)),
	)
}

// Catalog is an immutable list of sites sharing one darkness scale.
type Catalog struct {
	Name  string `yaml:"name" json:"name"`
	Scale Scale  `yaml:"scale" json:"scale"`
	Sites []Site `yaml:"sites" json:"sites"`
}

// Validate validates the catalog header and every site.
func (c *Catalog) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Scale, validation.Required, validation.In(ScaleLevel, ScaleSQM)),
		validation.Field(&c.Sites, validation.Required),
	); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Sites))
	for i := range c.Sites {
		if err := c.Sites[i].Validate(); err != nil {
			return fmt.Errorf("site %d: %w", i, err)
		}
		if _, dup := seen[c.Sites[i].Name]; dup {
			return fmt.Errorf("site %d: duplicate name %q", i, c.Sites[i].Name)
		}
		seen[c.Sites[i].Name] = struct{}{}
	}
	return nil
}

// Embedded lists the names of the catalogs compiled into the binary.
func Embedded() []string {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name()[:len(e.Name())-len(path.Ext(e.Name()))])
	}
	return names
}

// Load resolves name as an embedded catalog first and as a YAML file path second.
func Load(name string) (*Catalog, error) {
	data, err := embedded.ReadFile(path.Join("data", name+".yaml"))
	if err != nil {
		data, err = os.ReadFile(name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownCatalog, name)
			}
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %q: %w", c.Name, err)
	}
	return &c, nil
}
