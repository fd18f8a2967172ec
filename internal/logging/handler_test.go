// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/ktltc/cms-go/internal/model"
)

type fakeEventWriter struct {
	events []*model.Event
}

func (f *fakeEventWriter) Create(_ context.Context, ev *model.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func newTestHandler() (*EventLogHandler, *fakeEventWriter, *bytes.Buffer) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	fw := &fakeEventWriter{}
	return NewEventLogHandler(inner, fw), fw, &buf
}

func TestHandle_ForwardsToInner(t *testing.T) {
	h, _, buf := newTestHandler()
	logger := slog.New(h)

	logger.Info("hello from test")

	if !bytes.Contains(buf.Bytes(), []byte("hello from test")) {
		t.Error("record not forwarded to inner handler")
	}
}

func TestHandle_InfoNotPersisted(t *testing.T) {
	h, fw, _ := newTestHandler()
	logger := slog.New(h)

	logger.Info("routine info message")

	if len(fw.events) != 0 {
		t.Errorf("info record persisted: %+v", fw.events)
	}
}

func TestHandle_WarnPersisted(t *testing.T) {
	h, fw, _ := newTestHandler()
	logger := slog.New(h)

	logger.Warn("disk filling up", "free_mb", 120)

	if len(fw.events) != 1 {
		t.Fatalf("got %d events, want 1", len(fw.events))
	}
	ev := fw.events[0]
	if ev.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want warning", ev.Level)
	}
	if ev.Message != "disk filling up" {
		t.Errorf("Message = %q", ev.Message)
	}
	if ev.Metadata["free_mb"] != "120" {
		t.Errorf("Metadata = %v", ev.Metadata)
	}
}

func TestHandle_ErrorLevel(t *testing.T) {
	h, fw, _ := newTestHandler()
	logger := slog.New(h)

	logger.Error("database write failed")

	if len(fw.events) != 1 {
		t.Fatalf("got %d events, want 1", len(fw.events))
	}
	if fw.events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want error", fw.events[0].Level)
	}
}

func TestHandle_CustomLevel(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	fw := &fakeEventWriter{}
	h := NewEventLogHandlerWithLevel(inner, fw, slog.LevelError)
	logger := slog.New(h)

	logger.Warn("warn should be skipped")
	logger.Error("error should be persisted")

	if len(fw.events) != 1 {
		t.Fatalf("got %d events, want 1", len(fw.events))
	}
	if fw.events[0].Message != "error should be persisted" {
		t.Errorf("Message = %q", fw.events[0].Message)
	}
}

func TestExtractCategory(t *testing.T) {
	h, fw, _ := newTestHandler()
	logger := slog.New(h)

	tests := []struct {
		name string
		log  func()
		want string
	}{
		{
			name: "explicit category attribute",
			log:  func() { logger.Warn("anything at all", "category", model.EventCategoryNav) },
			want: model.EventCategoryNav,
		},
		{
			name: "inferred auth",
			log:  func() { logger.Warn("login failed for account") },
			want: model.EventCategoryAuth,
		},
		{
			name: "inferred news",
			log:  func() { logger.Warn("news post missing images") },
			want: model.EventCategoryNews,
		},
		{
			name: "inferred user",
			log:  func() { logger.Warn("user deactivated") },
			want: model.EventCategoryUser,
		},
		{
			name: "fallback system",
			log:  func() { logger.Warn("scheduler tick slow") },
			want: model.EventCategorySystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw.events = nil
			tt.log()
			if len(fw.events) != 1 {
				t.Fatalf("got %d events, want 1", len(fw.events))
			}
			if fw.events[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", fw.events[0].Category, tt.want)
			}
		})
	}
}

func TestExtractMetadata_SkipsCategory(t *testing.T) {
	h, fw, _ := newTestHandler()
	logger := slog.New(h)

	logger.Warn("msg", "category", "auth", "ip", "10.0.0.1")

	if len(fw.events) != 1 {
		t.Fatalf("got %d events, want 1", len(fw.events))
	}
	md := fw.events[0].Metadata
	if _, ok := md["category"]; ok {
		t.Error("category attribute leaked into metadata")
	}
	if md["ip"] != "10.0.0.1" {
		t.Errorf("Metadata = %v", md)
	}
}

func TestWithAttrs_PreservesBridge(t *testing.T) {
	h, fw, _ := newTestHandler()
	logger := slog.New(h).With("request_id", "abc123")

	logger.Warn("something odd")

	if len(fw.events) != 1 {
		t.Fatalf("got %d events, want 1", len(fw.events))
	}
}
