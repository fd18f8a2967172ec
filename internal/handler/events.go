// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
)

const (
	defaultEventsPageSize = 50
	maxEventsPageSize     = 200
)

type eventLog interface {
	List(ctx context.Context, p store.ListEventsParams) ([]model.Event, error)
}

// EventsHandler serves the audit log to administrators.
type EventsHandler struct {
	events eventLog
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(events eventLog) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /api/events, newest first. Optional level and category
// query parameters filter; skip and limit paginate.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, _ := strconv.ParseInt(q.Get("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit <= 0 || limit > maxEventsPageSize {
		limit = defaultEventsPageSize
	}

	events, err := h.events.List(r.Context(), store.ListEventsParams{
		Level:    q.Get("level"),
		Category: q.Get("category"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		writeStoreError(w, err, "events")
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(events))
}
