// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/ktltc/cms-go/internal/seo"
	"github.com/ktltc/cms-go/internal/store"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	news    frontendNews
	pages   pageRepo
	siteURL string
	isDev   bool
}

// NewSEOHandler creates a new SEOHandler.
func NewSEOHandler(news frontendNews, pages pageRepo, siteURL string, isDev bool) *SEOHandler {
	return &SEOHandler{news: news, pages: pages, siteURL: siteURL, isDev: isDev}
}

// Robots handles GET /robots.txt. Development deployments block all
// crawlers so staging content never gets indexed.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	out := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.isDev,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// Sitemap handles GET /sitemap.xml over the published content.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()
	b.AddNewsIndex()

	posts, err := h.news.List(r.Context(), store.ListNewsParams{PublishedOnly: true, ListView: true})
	if err != nil {
		slog.Error("listing news for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	for _, post := range posts {
		mod := post.UpdatedAt
		if mod.IsZero() {
			mod = post.CreatedAt
		}
		b.AddNewsPost(post.ID.Hex(), mod)
	}

	pages, err := h.pages.List(r.Context())
	if err != nil {
		slog.Error("listing pages for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	for _, page := range pages {
		mod := page.UpdatedAt
		if mod.IsZero() {
			mod = page.CreatedAt
		}
		b.AddPage(page.Slug, mod)
	}

	out, err := b.Build()
	if err != nil {
		slog.Error("building sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
