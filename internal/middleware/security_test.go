// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSecurityHeaders_Production(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	h := SecurityHeaders(cfg)(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	headers := w.Header()
	if got := headers.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := headers.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}

	hsts := headers.Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") || !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("Strict-Transport-Security = %q", hsts)
	}

	csp := headers.Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP missing default-src: %q", csp)
	}
	if !strings.Contains(csp, "https://www.youtube.com") {
		t.Errorf("CSP does not allow YouTube embeds: %q", csp)
	}
}

func TestSecurityHeaders_Development(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(true)
	h := SecurityHeaders(cfg)(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if hsts := w.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Errorf("HSTS set in development: %q", hsts)
	}
}

func TestTimeout_CompletesInTime(t *testing.T) {
	h := Timeout(100 * time.Millisecond)(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestStripTrailingSlash(t *testing.T) {
	h := StripTrailingSlash(okHandler())

	tests := []struct {
		path     string
		wantCode int
		wantLoc  string
	}{
		{"/news/", http.StatusMovedPermanently, "/news"},
		{"/news", http.StatusOK, ""},
		{"/", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantLoc != "" && w.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, want %q", w.Header().Get("Location"), tt.wantLoc)
			}
		})
	}
}

func TestStripTrailingSlash_PreservesQuery(t *testing.T) {
	h := StripTrailingSlash(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/news/?page=2", nil))

	if loc := w.Header().Get("Location"); loc != "/news?page=2" {
		t.Errorf("Location = %q, want /news?page=2", loc)
	}
}
