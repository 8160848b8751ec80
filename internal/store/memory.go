package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/stargazing-finder/internal/geo"
	"github.com/i474232898/stargazing-finder/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh snapshot is cached for a location.
	ErrNotFound = errors.New("no weather data for location")
)

type entry struct {
	snapshot weather.Snapshot
	storedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory snapshot cache with a time-to-live.
type MemoryStore struct {
	mu sync.RWMutex

	// key: coordinates key, value: latest snapshot
	data map[string]entry

	maxAge time.Duration // entries older than this are treated as missing (0 = never expire)
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// If maxAge is <= 0, entries never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]entry),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// SaveSnapshot replaces the cached snapshot for a location.
func (s *MemoryStore) SaveSnapshot(at geo.Coordinates, snapshot weather.Snapshot) {
	key := at.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{snapshot: snapshot, storedAt: s.now()}
}

// GetLatest returns the cached snapshot for a location if it has not expired.
func (s *MemoryStore) GetLatest(at geo.Coordinates) (weather.Snapshot, error) {
	key := at.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.expired(e) {
		return weather.Snapshot{}, ErrNotFound
	}
	return cloneSnapshot(e.snapshot), nil
}

func cloneSnapshot(s weather.Snapshot) weather.Snapshot {
	s.Hourly = append([]weather.HourlyCloud(nil), s.Hourly...)
	if s.Moonrise != nil {
		t := *s.Moonrise
		s.Moonrise = &t
	}
	if s.Moonset != nil {
		t := *s.Moonset
		s.Moonset = &t
	}
	return s
}

// Purge drops expired entries and returns how many were removed.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.data {
		if s.expired(e) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(e entry) bool {
	return s.maxAge > 0 && s.now().Sub(e.storedAt) >= s.maxAge
}
