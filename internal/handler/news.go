// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/cache"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
)

// maxNewsPageSize caps the limit query parameter.
const maxNewsPageSize = 100

type newsRepo interface {
	List(ctx context.Context, p store.ListNewsParams) ([]model.NewsPost, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.NewsPost, error)
	Create(ctx context.Context, post *model.NewsPost) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, p store.UpdateNewsParams) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NewsHandler serves the news REST endpoints.
type NewsHandler struct {
	news   newsRepo
	caches *cache.Manager
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(news newsRepo, caches *cache.Manager) *NewsHandler {
	return &NewsHandler{news: news, caches: caches}
}

// List handles GET /api/news. Anonymous callers see published posts only,
// in the trimmed list projection; authenticated staff see drafts too.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 0 || limit > maxNewsPageSize {
		limit = maxNewsPageSize
	}

	anonymous := middleware.GetUser(r) == nil

	// The unpaginated published listing is what the homepage hammers;
	// serve it from cache.
	if anonymous && skip == 0 && limit == 0 {
		posts, err := h.caches.NewsList.GetOrSet(r.Context(), cache.KeyNewsList, func() (*[]model.NewsPost, error) {
			list, err := h.news.List(r.Context(), store.ListNewsParams{PublishedOnly: true, ListView: true})
			if err != nil {
				return nil, err
			}
			return &list, nil
		})
		if err != nil {
			writeStoreError(w, err, "news")
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(*posts))
		return
	}

	posts, err := h.news.List(r.Context(), store.ListNewsParams{
		Skip:          skip,
		Limit:         limit,
		PublishedOnly: anonymous,
		ListView:      anonymous,
	})
	if err != nil {
		writeStoreError(w, err, "news")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(posts))
}

// Get handles GET /api/news/{id}. Drafts are invisible to anonymous
// callers, indistinguishable from posts that do not exist.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "news post")
		return
	}

	post, err := h.news.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "news post")
		return
	}
	if !post.Published && middleware.GetUser(r) == nil {
		writeJSONError(w, http.StatusNotFound, "news post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type newsPayload struct {
	ID                 string           `json:"_id"`
	Title              *string          `json:"title"`
	Categories         []string         `json:"categories"`
	Content            *string          `json:"content"`
	Images             []string         `json:"images"`
	AnnouncementImages []string         `json:"announcementImages"`
	Links              []model.NewsLink `json:"links"`
	VideoEmbeds        []string         `json:"videoEmbeds"`
	Published          *bool            `json:"published"`
}

// Create handles POST /api/news.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req newsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	content := ""
	if req.Content != nil {
		content = *req.Content
	}
	if title == "" || content == "" || len(req.Categories) == 0 {
		writeJSONError(w, http.StatusBadRequest, "title, content and at least one category are required")
		return
	}

	post := &model.NewsPost{
		Title:              title,
		Category:           req.Categories[0],
		Categories:         req.Categories,
		Content:            sanitizeHTML(content),
		Images:             emptyIfNil(req.Images),
		AnnouncementImages: emptyIfNil(req.AnnouncementImages),
		Links:              emptyIfNil(req.Links),
		VideoEmbeds:        emptyIfNil(req.VideoEmbeds),
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	id, err := h.news.Create(r.Context(), post)
	if err != nil {
		writeStoreError(w, err, "news post")
		return
	}

	h.caches.InvalidateNews(r.Context())
	slog.Info("news post created", "category", model.EventCategoryNews, "id", id.Hex(), "title", title)
	writeJSONSuccess(w, map[string]any{"_id": id.Hex()})
}

// Update handles PUT /api/news/{id} and PUT /api/news. The id comes from the
// URL when present, otherwise from the body's _id. Absent fields are left
// unchanged.
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req newsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = req.ID
	}
	id, err := store.ParseID(raw)
	if err != nil {
		writeStoreError(w, err, "news post")
		return
	}

	if req.Categories != nil && len(req.Categories) == 0 {
		writeJSONError(w, http.StatusBadRequest, "at least one category is required")
		return
	}

	params := store.UpdateNewsParams{
		Title:              req.Title,
		Categories:         req.Categories,
		Images:             req.Images,
		AnnouncementImages: req.AnnouncementImages,
		Links:              req.Links,
		VideoEmbeds:        req.VideoEmbeds,
		Published:          req.Published,
	}
	if req.Content != nil {
		clean := sanitizeHTML(*req.Content)
		params.Content = &clean
	}

	if err := h.news.Update(r.Context(), id, params); err != nil {
		writeStoreError(w, err, "news post")
		return
	}

	h.caches.InvalidateNews(r.Context())
	writeJSONSuccess(w, nil)
}

// Delete handles DELETE /api/news/{id}.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "news post")
		return
	}

	if err := h.news.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "news post")
		return
	}

	h.caches.InvalidateNews(r.Context())
	slog.Info("news post deleted", "category", model.EventCategoryNews, "id", id.Hex())
	writeJSONSuccess(w, nil)
}

// emptyIfNil turns a nil slice into an empty one so JSON encodes [] rather
// than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
