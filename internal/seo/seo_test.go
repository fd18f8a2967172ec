// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilder(t *testing.T) {
	b := NewSitemapBuilder("https://www.ktltc.ac.th")
	b.AddHomepage()
	b.AddNewsIndex()
	b.AddNewsPost("6543a1b2c3d4e5f601234567", time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC))
	b.AddPage("about-us", time.Time{})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 4 {
		t.Fatalf("got %d urls, want 4", len(parsed.URLs))
	}
	if parsed.XMLNS != XMLNamespace {
		t.Errorf("xmlns = %q", parsed.XMLNS)
	}

	s := string(out)
	if !strings.Contains(s, "https://www.ktltc.ac.th/news/6543a1b2c3d4e5f601234567") {
		t.Error("news post URL missing")
	}
	if !strings.Contains(s, "<lastmod>2026-02-10</lastmod>") {
		t.Error("lastmod not formatted as a date")
	}
	if strings.Contains(s, "/p/about-us</loc>") && strings.Contains(s, "about-us\"><lastmod></lastmod>") {
		t.Error("zero time emitted as lastmod")
	}
	if !strings.HasPrefix(s, xml.Header) {
		t.Error("XML header missing")
	}
}

func TestBuildRobots(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		out := BuildRobots(RobotsConfig{SiteURL: "https://www.ktltc.ac.th/"})

		for _, want := range []string{
			"User-agent: *",
			"Disallow: /api",
			"Disallow: /login",
			"Allow: /",
			"Sitemap: https://www.ktltc.ac.th/sitemap.xml",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("disallow all", func(t *testing.T) {
		out := BuildRobots(RobotsConfig{DisallowAll: true})
		if !strings.Contains(out, "Disallow: /\n") {
			t.Error("crawlers not blocked")
		}
		if strings.Contains(out, "Allow:") {
			t.Error("allow rule present in blocked mode")
		}
	})

	t.Run("extra paths", func(t *testing.T) {
		out := BuildRobots(RobotsConfig{DisallowPaths: []string{"/internal"}})
		if !strings.Contains(out, "Disallow: /internal") {
			t.Error("extra path missing")
		}
	})
}
