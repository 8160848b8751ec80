package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	cases := []struct {
		name      string
		wantScale Scale
		minSites  int
	}{
		{"kanto", ScaleLevel, 5},
		{"darksky", ScaleSQM, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Load(tc.name)
			if err != nil {
				t.Fatalf("Load(%q) error: %v", tc.name, err)
			}
			if c.Scale != tc.wantScale {
				t.Fatalf("Scale = %q; want %q", c.Scale, tc.wantScale)
			}
			if len(c.Sites) < tc.minSites {
				t.Fatalf("got %d sites; want at least %d", len(c.Sites), tc.minSites)
			}
		})
	}
}

func TestEmbeddedNames(t *testing.T) {
	names := Embedded()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "darksky" || names[1] != "kanto" {
		t.Fatalf("Embedded() = %v", names)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.yaml")
	body := "name: custom\nscale: level\nsites:\n  - name: Backyard\n    lat: 10\n    lon: 20\n    darkness: 3\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", p, err)
	}
	if len(c.Sites) != 1 || c.Sites[0].Name != "Backyard" {
		t.Fatalf("unexpected sites: %+v", c.Sites)
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrUnknownCatalog) {
		t.Fatalf("expected ErrUnknownCatalog, got %v", err)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad scale", "name: x\nscale: bortle\nsites:\n  - {name: a, lat: 0, lon: 0, darkness: 1}\n"},
		{"no sites", "name: x\nscale: level\nsites: []\n"},
		{"latitude out of range", "name: x\nscale: level\nsites:\n  - {name: a, lat: 91, lon: 0, darkness: 1}\n"},
		{"missing site name", "name: x\nscale: level\nsites:\n  - {lat: 1, lon: 0, darkness: 1}\n"},
		{"duplicate names", "name: x\nscale: level\nsites:\n  - {name: a, lat: 1, lon: 0, darkness: 1}\n  - {name: a, lat: 2, lon: 0, darkness: 1}\n"},
		{"not yaml", "::::"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
