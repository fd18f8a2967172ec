// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
	"github.com/ktltc/cms-go/internal/util"
)

type pageRepo interface {
	List(ctx context.Context) ([]model.Page, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Page, error)
	GetBySlug(ctx context.Context, slug string) (*model.Page, error)
	Create(ctx context.Context, page *model.Page) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, slug, title, content string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PagesHandler serves the static-page REST endpoints.
type PagesHandler struct {
	pages pageRepo
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(pages pageRepo) *PagesHandler {
	return &PagesHandler{pages: pages}
}

// List handles GET /api/pages.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "pages")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(pages))
}

// GetBySlug handles GET /api/pages/slug/{slug}.
func (h *PagesHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		writeJSONError(w, http.StatusBadRequest, "invalid slug")
		return
	}

	page, err := h.pages.GetBySlug(r.Context(), slug)
	if err != nil {
		writeStoreError(w, err, "page")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/pages/{id}.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "page")
		return
	}

	page, err := h.pages.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "page")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type pagePayload struct {
	ID      string `json:"_id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// validate normalizes the payload in place. A blank slug is derived from
// the title.
func (p *pagePayload) validate() (string, bool) {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Title == "" || p.Content == "" {
		return "title and content are required", false
	}
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Title)
	}
	if !util.IsValidSlug(p.Slug) {
		return "invalid slug", false
	}
	return "", true
}

// Create handles POST /api/pages. A duplicate slug is a 409, enforced by
// the unique index rather than a lookup.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pagePayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	page := &model.Page{
		Slug:    req.Slug,
		Title:   req.Title,
		Content: sanitizeHTML(req.Content),
	}
	id, err := h.pages.Create(r.Context(), page)
	if err != nil {
		writeStoreError(w, err, "page")
		return
	}

	slog.Info("page created", "category", model.EventCategoryPage, "id", id.Hex(), "slug", req.Slug)
	writeJSONSuccess(w, map[string]any{"_id": id.Hex(), "slug": req.Slug})
}

// Update handles PUT /api/pages. The target id travels in the body.
// Keeping the existing slug succeeds; taking another page's slug is a 409.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req pagePayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := store.ParseID(req.ID)
	if err != nil {
		writeStoreError(w, err, "page")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.pages.Update(r.Context(), id, req.Slug, req.Title, sanitizeHTML(req.Content)); err != nil {
		writeStoreError(w, err, "page")
		return
	}
	writeJSONSuccess(w, nil)
}

// Delete handles DELETE /api/pages/{id}.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "page")
		return
	}

	if err := h.pages.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "page")
		return
	}

	slog.Info("page deleted", "category", model.EventCategoryPage, "id", id.Hex())
	writeJSONSuccess(w, nil)
}
