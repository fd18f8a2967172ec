// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder assembles sitemap XML from the site's content.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder. siteURL is the absolute
// base URL without a trailing slash.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: siteURL}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddNewsIndex adds the news listing page.
func (b *SitemapBuilder) AddNewsIndex() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/news",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "0.9",
	})
}

// AddNewsPost adds a published news post.
func (b *SitemapBuilder) AddNewsPost(id string, updatedAt time.Time) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/news/" + id,
		LastMod:    lastMod(updatedAt),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.7",
	})
}

// AddPage adds a static page by slug.
func (b *SitemapBuilder) AddPage(slug string, updatedAt time.Time) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/p/" + slug,
		LastMod:    lastMod(updatedAt),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.5",
	})
}

// Build serializes the sitemap to XML with the standard header.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
