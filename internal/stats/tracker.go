// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stats counts site visitors. Visits are buffered in memory and
// flushed to the database on a schedule so the public counter endpoint
// never writes on the request path.
package stats

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/ktltc/cms-go/internal/util"
)

// VisitorCookieName identifies a browser across visits. The value is a
// random UUID, not derived from anything about the user.
const VisitorCookieName = "visitor_id"

const visitorCookieMaxAge = 365 * 24 * 60 * 60 // one year, in seconds

// Sink persists flushed visit counts. *store.StatsStore satisfies it.
type Sink interface {
	IncrementVisitors(ctx context.Context, n int64) error
	RecordDaily(ctx context.Context, day string, n int64, countries map[string]int64) error
}

// CountryResolver maps an IP to a country code. *geoip.Resolver satisfies it.
type CountryResolver interface {
	Country(ip string) string
}

// Invalidator drops the cached visitor count after a flush so reads see the
// new total. *cache.Manager satisfies it.
type Invalidator interface {
	InvalidateVisitorCount(ctx context.Context)
}

// Tracker accumulates visits in memory between flushes. Each visitor cookie
// is counted at most once per calendar day (UTC).
type Tracker struct {
	sink  Sink
	geo   CountryResolver // may be nil
	cache Invalidator     // may be nil

	mu        sync.Mutex
	pending   int64
	countries map[string]int64
	seen      map[string]string // visitor id -> day last counted
}

// NewTracker creates a Tracker. geo and cache may be nil.
func NewTracker(sink Sink, geo CountryResolver, cache Invalidator) *Tracker {
	return &Tracker{
		sink:      sink,
		geo:       geo,
		cache:     cache,
		countries: make(map[string]int64),
		seen:      make(map[string]string),
	}
}

// VisitorID returns the visitor cookie value, setting a fresh UUID cookie
// when the request does not carry one.
func (t *Tracker) VisitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   visitorCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Record counts a visit from the request. It reports whether the visit was
// counted: bots and repeat visits on the same day are not.
func (t *Tracker) Record(w http.ResponseWriter, r *http.Request) bool {
	if ua := useragent.Parse(r.UserAgent()); ua.Bot {
		return false
	}

	visitorID := t.VisitorID(w, r)
	day := time.Now().UTC().Format("2006-01-02")

	var country string
	if t.geo != nil {
		country = t.geo.Country(util.ClientIP(r))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen[visitorID] == day {
		return false
	}
	t.seen[visitorID] = day

	t.pending++
	if country != "" {
		t.countries[country]++
	}
	return true
}

// Pending returns the number of visits waiting to be flushed.
func (t *Tracker) Pending() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Flush writes buffered visits to the sink and drops stale dedupe entries.
// On a sink error the buffered counts are restored for the next attempt.
func (t *Tracker) Flush(ctx context.Context) error {
	day := time.Now().UTC().Format("2006-01-02")

	t.mu.Lock()
	n := t.pending
	countries := t.countries
	t.pending = 0
	t.countries = make(map[string]int64)
	for id, seenDay := range t.seen {
		if seenDay != day {
			delete(t.seen, id)
		}
	}
	t.mu.Unlock()

	if n == 0 {
		return nil
	}

	if err := t.sink.IncrementVisitors(ctx, n); err != nil {
		t.restore(n, countries)
		return err
	}
	// The per-day breakdown is best effort: the total is already committed,
	// so a failure here is reported but not retried.
	if err := t.sink.RecordDaily(ctx, day, n, countries); err != nil {
		return err
	}

	if t.cache != nil {
		t.cache.InvalidateVisitorCount(ctx)
	}
	return nil
}

func (t *Tracker) restore(n int64, countries map[string]int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending += n
	for code, c := range countries {
		t.countries[code] += c
	}
}
