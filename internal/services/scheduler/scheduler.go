// Package scheduler triggers periodic index rebuilds, either on a fixed
// interval or at cron-style weekly times. The two modes are mutually
// exclusive; config validation rejects setting both.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sweeparr/sweeparr/internal/services/providermap"
	"github.com/sweeparr/sweeparr/pkg/config"
)

// Scheduler owns the background rebuild triggers.
type Scheduler struct {
	rebuilder providermap.Rebuilder
	cron      *cron.Cron
	interval  time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// New builds a scheduler from the refresh configuration. A config with
// neither interval nor schedule yields a scheduler whose Start is a no-op.
func New(rebuilder providermap.Rebuilder, cfg config.RefreshConfig) (*Scheduler, error) {
	s := &Scheduler{rebuilder: rebuilder}

	if cfg.IntervalMinutes > 0 {
		s.interval = time.Duration(cfg.IntervalMinutes) * time.Minute
		return s, nil
	}

	if len(cfg.Schedule) > 0 {
		s.cron = cron.New()
		for _, spec := range cfg.Schedule {
			expr, err := cronSpec(spec)
			if err != nil {
				return nil, err
			}
			if _, err := s.cron.AddFunc(expr, s.runRebuild); err != nil {
				return nil, fmt.Errorf("invalid schedule entry %q: %w", expr, err)
			}
		}
	}
	return s, nil
}

// cronSpec converts one schedule entry to a standard cron expression.
func cronSpec(spec config.ScheduleSpec) (string, error) {
	day, err := cronDay(spec.Day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * %s", spec.Minute, spec.Hour, day), nil
}

// Both full weekday names and the three-letter forms are accepted, matching
// config validation.
var dayFields = map[string]string{
	"*":   "*",
	"sun": "SUN", "sunday": "SUN",
	"mon": "MON", "monday": "MON",
	"tue": "TUE", "tuesday": "TUE",
	"wed": "WED", "wednesday": "WED",
	"thu": "THU", "thursday": "THU",
	"fri": "FRI", "friday": "FRI",
	"sat": "SAT", "saturday": "SAT",
}

func cronDay(day string) (string, error) {
	if day == "" {
		return "*", nil
	}
	if field, ok := dayFields[strings.ToLower(day)]; ok {
		return field, nil
	}
	return "", fmt.Errorf("unknown schedule day %q", day)
}

// Start launches the configured trigger. Safe to call on a scheduler with
// no triggers configured.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}

	switch {
	case s.interval > 0:
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.intervalLoop()
		log.Printf("[INFO] Rebuild scheduler started (every %s)", s.interval)
	case s.cron != nil:
		s.cron.Start()
		log.Printf("[INFO] Rebuild scheduler started (%d cron entries)", len(s.cron.Entries()))
	default:
		log.Printf("[INFO] Automatic rebuilds disabled")
		return
	}
	s.started = true
}

// Stop halts the trigger and waits for an in-flight tick handler to return.
// A rebuild already running inside the engine is not cancelled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.stop != nil {
		close(s.stop)
		<-s.done
	}
	s.started = false
	log.Printf("[INFO] Rebuild scheduler stopped")
}

func (s *Scheduler) intervalLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runRebuild()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) runRebuild() {
	log.Printf("[INFO] Scheduled rebuild starting")
	report, err := s.rebuilder.Rebuild(context.Background(), false)
	if err != nil {
		log.Printf("[ERROR] Scheduled rebuild failed: %v", err)
		return
	}
	log.Printf("[INFO] Scheduled rebuild done in %s (%d series, %d mappings)",
		report.Duration, report.Series, report.Mappings)
}
