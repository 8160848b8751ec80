package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/stargazing-finder/internal/metrics"
)

// Purger drops expired cache entries and reports how many were removed.
type Purger interface {
	Purge() int
}

// Scheduler periodically evicts expired snapshots from the weather cache so
// coordinates that are never queried again do not accumulate.
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    Purger
	interval  time.Duration
	metrics   *metrics.Collector
}

// New creates a new Scheduler. The collector may be nil.
func New(purger Purger, interval time.Duration, collector *metrics.Collector) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		purger:    purger,
		interval:  interval,
		metrics:   collector,
	}
}

// Start schedules the purge job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() { s.RunOnce() })
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce purges expired entries immediately.
func (s *Scheduler) RunOnce() int {
	n := s.purger.Purge()
	s.metrics.RecordPurge(n)
	if n > 0 {
		log.Printf("scheduler: purged %d expired weather snapshots", n)
	}
	return n
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
