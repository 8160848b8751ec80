package geocode

import (
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
)

func TestNilLocatorIsDisabled(t *testing.T) {
	if l := NewLocator(""); l != nil {
		t.Fatal("expected nil locator without key")
	}
	var l *Locator
	if _, err := l.Resolve("Tokyo"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	var got geocoder.Address
	l := &Locator{lookup: func(a geocoder.Address) (geocoder.Location, error) {
		got = a
		return geocoder.Location{Latitude: 35.8677, Longitude: 139.9758}, nil
	}}

	c, err := l.Resolve("  Kashiwa, Chiba, Japan ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 35.8677 || c.Lon != 139.9758 {
		t.Fatalf("coordinates = %+v", c)
	}
	if got.City != "Kashiwa" || got.State != "Chiba" || got.Country != "Japan" {
		t.Fatalf("address = %+v", got)
	}
}

func TestResolveFailures(t *testing.T) {
	cases := []struct {
		name   string
		place  string
		lookup lookupFunc
	}{
		{"empty", "  ", nil},
		{"lookup error", "Atlantis", func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		}},
		{"invalid coordinates", "Nowhere", func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{Latitude: 200}, nil
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &Locator{lookup: tc.lookup}
			if _, err := l.Resolve(tc.place); !errors.Is(err, ErrNoResult) {
				t.Fatalf("expected ErrNoResult, got %v", err)
			}
		})
	}
}
