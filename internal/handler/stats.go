// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ktltc/cms-go/internal/cache"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/stats"
)

type visitorCounter interface {
	VisitorCount(ctx context.Context) (int64, error)
	Daily(ctx context.Context, day string) (*model.SiteStat, error)
}

// StatsHandler serves the visitor-counter endpoints.
type StatsHandler struct {
	tracker *stats.Tracker
	store   visitorCounter
	caches  *cache.Manager
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(tracker *stats.Tracker, store visitorCounter, caches *cache.Manager) *StatsHandler {
	return &StatsHandler{tracker: tracker, store: store, caches: caches}
}

// RecordVisit handles POST /api/stats/visit. The visit lands in the
// in-memory buffer; the scheduler flushes it to the database. Bots and
// repeat visits within the day are acknowledged but not counted.
func (h *StatsHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	counted := h.tracker.Record(w, r)
	writeJSONSuccess(w, map[string]any{"counted": counted})
}

// VisitorCount handles GET /api/stats/visit. The count is served through a
// short-lived cache on top of the persisted total, so it trails the buffer
// by at most one flush interval.
func (h *StatsHandler) VisitorCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.caches.VisitorCount.GetOrSet(r.Context(), cache.KeyVisitorCount, func() (*int64, error) {
		n, err := h.store.VisitorCount(r.Context())
		if err != nil {
			return nil, err
		}
		return &n, nil
	})
	if err != nil {
		writeStoreError(w, err, "visitor count")
		return
	}
	writeJSONSuccess(w, map[string]any{"count": *count})
}

// Daily handles GET /api/stats/daily for administrators. The day query
// parameter is YYYY-MM-DD and defaults to today (UTC). A day with no
// recorded visits returns a zero count.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		writeJSONError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	stat, err := h.store.Daily(r.Context(), day)
	if err != nil {
		writeStoreError(w, err, "daily stats")
		return
	}
	writeJSON(w, http.StatusOK, stat)
}
