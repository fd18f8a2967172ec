// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs: flushing buffered
// visitor counts, pruning old event log entries and refreshing the GeoIP
// database.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Flusher is the visitor tracker's flush entry point.
type Flusher interface {
	Flush(ctx context.Context) error
}

// EventPruner removes event log entries older than the cutoff and returns
// how many were deleted. *store.EventStore satisfies it.
type EventPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reloader re-reads an on-disk resource if it changed. *geoip.Resolver
// satisfies it.
type Reloader interface {
	Reload() error
}

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron          *cron.Cron
	logger        *slog.Logger
	tracker       Flusher
	events        EventPruner
	geo           Reloader // may be nil
	retentionDays int
}

// New creates a scheduler. geo may be nil when GeoIP is disabled.
func New(logger *slog.Logger, tracker Flusher, events EventPruner, geo Reloader, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		logger:        logger,
		tracker:       tracker,
		events:        events,
		geo:           geo,
		retentionDays: retentionDays,
	}
}

// Start registers the jobs and begins running them.
func (s *Scheduler) Start() error {
	// Flush buffered visitor counts every minute.
	if _, err := s.cron.AddFunc("* * * * *", s.flushVisits); err != nil {
		return err
	}

	// Prune old events nightly, outside peak hours.
	if _, err := s.cron.AddFunc("30 3 * * *", s.pruneEvents); err != nil {
		return err
	}

	if s.geo != nil {
		if _, err := s.cron.AddFunc("0 4 * * *", s.reloadGeoIP); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish, then flushes one last time so
// buffered visits are not lost on shutdown.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tracker.Flush(ctx); err != nil {
		s.logger.Error("final visitor flush failed", "error", err)
	}

	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) flushVisits() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.tracker.Flush(ctx); err != nil {
		s.logger.Error("visitor flush failed", "error", err)
	}
}

func (s *Scheduler) pruneEvents() {
	if s.retentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.events.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("event pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("pruned old events", "deleted", deleted, "cutoff", cutoff)
	}
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("geoip reload failed", "error", err)
	}
}
