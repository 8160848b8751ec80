package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/stargazing-finder/internal/geo"
	"github.com/i474232898/stargazing-finder/internal/metrics"
)

// Service is the weather gateway: a read-through cache in front of one provider.
type Service struct {
	store    Store
	provider Provider
	metrics  *metrics.Collector
}

// NewService creates a new Service. The collector may be nil.
func NewService(store Store, provider Provider, collector *metrics.Collector) *Service {
	return &Service{
		store:    store,
		provider: provider,
		metrics:  collector,
	}
}

// Conditions returns the snapshot for the coordinates, from cache when fresh.
// Every failure is reported as an error wrapping ErrFetchFailed.
func (s *Service) Conditions(ctx context.Context, at geo.Coordinates) (Snapshot, error) {
	if snap, err := s.store.GetLatest(at); err == nil {
		s.metrics.RecordCache(true)
		return snap, nil
	}
	s.metrics.RecordCache(false)

	if s.provider == nil {
		return Snapshot{}, fmt.Errorf("%w: no weather provider configured", ErrFetchFailed)
	}

	start := time.Now()
	snap, err := s.provider.Fetch(ctx, at)
	s.metrics.ObserveFetch(s.provider.Name(), err, time.Since(start))
	if err != nil {
		log.Printf("provider %s fetch failed for %s: %v", s.provider.Name(), at.Key(), err)
		if !errors.Is(err, ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		return Snapshot{}, err
	}

	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}
	s.store.SaveSnapshot(at, snap)
	return snap, nil
}
