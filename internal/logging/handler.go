// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that integrates with the
// event log. It forwards logs at WARN level and above to the database-backed
// event collection for auditing.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ktltc/cms-go/internal/model"
)

// EventWriter persists a single event record. *store.EventStore satisfies it.
type EventWriter interface {
	Create(ctx context.Context, ev *model.Event) error
}

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the event collection.
type EventLogHandler struct {
	inner  slog.Handler
	events EventWriter
	level  slog.Level // Minimum level to forward to the event log (default: WARN)
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above are written to both the wrapped handler and the
// event collection.
func NewEventLogHandler(inner slog.Handler, events EventWriter) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		events: events,
		level:  slog.LevelWarn,
	}
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, events EventWriter, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		events: events,
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
	}
}

// writeToEventLog persists a log record to the event collection. A background
// context is used so the event is logged even if the request context is
// already cancelled.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	ev := &model.Event{
		Level:     slogLevelToEventLevel(r.Level),
		Category:  extractCategory(r),
		Message:   r.Message,
		Metadata:  extractMetadata(r),
		CreatedAt: r.Time,
	}
	_ = h.events.Create(context.Background(), ev)
}

// slogLevelToEventLevel converts a slog.Level to an event log level.
func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory looks for a "category" attribute on the record, falling
// back to inference from common message patterns.
func extractCategory(r slog.Record) string {
	var category string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false // Stop iteration
		}
		return true
	})

	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "news") || strings.Contains(msg, "post"):
		return model.EventCategoryNews
	case strings.Contains(msg, "page") || strings.Contains(msg, "content"):
		return model.EventCategoryPage
	case strings.Contains(msg, "user"):
		return model.EventCategoryUser
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata collects all non-category attributes into a string map.
func extractMetadata(r slog.Record) map[string]string {
	if r.NumAttrs() == 0 {
		return nil
	}

	md := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true // Skip category, already extracted
		}
		md[a.Key] = a.Value.String()
		return true
	})
	if len(md) == 0 {
		return nil
	}
	return md
}
