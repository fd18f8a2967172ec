// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/render"
	"github.com/ktltc/cms-go/internal/service"
	"github.com/ktltc/cms-go/internal/stats"
	"github.com/ktltc/cms-go/internal/store"
	"github.com/ktltc/cms-go/internal/util"
)

const (
	homeNewsCount      = 6
	publicNewsPageSize = 12
)

type frontendNews interface {
	List(ctx context.Context, p store.ListNewsParams) ([]model.NewsPost, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.NewsPost, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
}

type frontendPages interface {
	GetBySlug(ctx context.Context, slug string) (*model.Page, error)
}

// FrontendHandler renders the public server-side pages.
type FrontendHandler struct {
	renderer *render.Renderer
	news     frontendNews
	pages    frontendPages
	menu     *service.MenuService
	tracker  *stats.Tracker
	siteName string
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, news frontendNews, pages frontendPages, menu *service.MenuService, tracker *stats.Tracker, siteName string) *FrontendHandler {
	return &FrontendHandler{
		renderer: renderer,
		news:     news,
		pages:    pages,
		menu:     menu,
		tracker:  tracker,
		siteName: siteName,
	}
}

// render wraps the renderer with menu loading and error handling shared by
// every public page.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	menu, err := h.menu.Tree(r.Context())
	if err != nil {
		slog.Error("loading menu", "error", err)
		// The page is still worth serving without navigation.
		menu = nil
	}

	if err := h.renderer.Render(w, name, render.TemplateData{
		Title: title,
		Menu:  menu,
		Data:  data,
	}); err != nil {
		slog.Error("rendering page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.tracker.Record(w, r)

	news, err := h.news.List(r.Context(), store.ListNewsParams{
		Limit:         homeNewsCount,
		PublishedOnly: true,
		ListView:      true,
	})
	if err != nil {
		slog.Error("loading home news", "error", err)
		news = nil
	}

	h.render(w, r, "public/home", h.siteName, map[string]any{"News": news})
}

// NewsList handles GET /news with skip-based pagination.
func (h *FrontendHandler) NewsList(w http.ResponseWriter, r *http.Request) {
	h.tracker.Record(w, r)

	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}

	news, err := h.news.List(r.Context(), store.ListNewsParams{
		Skip:          skip,
		Limit:         publicNewsPageSize,
		PublishedOnly: true,
		ListView:      true,
	})
	if err != nil {
		slog.Error("loading news list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	total, err := h.news.Count(r.Context(), true)
	if err != nil {
		slog.Error("counting news", "error", err)
		total = skip + int64(len(news))
	}

	h.render(w, r, "public/news_list", "ข่าวทั้งหมด - "+h.siteName, map[string]any{
		"News":     news,
		"HasPrev":  skip > 0,
		"HasNext":  skip+int64(len(news)) < total,
		"PrevSkip": max(skip-publicNewsPageSize, 0),
		"NextSkip": skip + publicNewsPageSize,
	})
}

// NewsDetail handles GET /news/{id}. Unpublished posts are a 404 here even
// for logged-in staff; drafts are previewed in the dashboard.
func (h *FrontendHandler) NewsDetail(w http.ResponseWriter, r *http.Request) {
	h.tracker.Record(w, r)

	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.news.GetByID(r.Context(), id)
	if err != nil || !post.Published {
		http.NotFound(w, r)
		return
	}

	h.render(w, r, "public/news_detail", post.Title+" - "+h.siteName, map[string]any{"Post": post})
}

// Page handles GET /p/{slug}.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.tracker.Record(w, r)

	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		http.NotFound(w, r)
		return
	}

	page, err := h.pages.GetBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	h.render(w, r, "public/page", page.Title+" - "+h.siteName, map[string]any{"Page": page})
}

// LoginForm handles GET /login.
func (h *FrontendHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/login", "เข้าสู่ระบบ - "+h.siteName, nil)
}

// Dashboard handles GET /dashboard. Mounted behind the session guard, which
// puts the resolved user in context before this runs.
func (h *FrontendHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render(w, r, "auth/dashboard", "แผงควบคุม - "+h.siteName, map[string]any{"User": user})
}
