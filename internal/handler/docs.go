// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	_ "embed"
	"log/slog"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed docs/api.md
var apiReference []byte

// DocsHandler serves the rendered API reference.
type DocsHandler struct {
	once sync.Once
	html []byte
}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// Docs handles GET /api/docs. The markdown source is rendered once and
// cached for the process lifetime.
func (h *DocsHandler) Docs(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		var buf bytes.Buffer
		if err := md.Convert(apiReference, &buf); err != nil {
			slog.Error("rendering API reference", "error", err)
			return
		}
		h.html = buf.Bytes()
	})

	if h.html == nil {
		writeJSONError(w, http.StatusInternalServerError, "documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.html)
}
