// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor IPs to ISO country codes using a MaxMind
// GeoLite2-Country database. Lookups degrade to empty results when no
// database is configured.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

var privateCIDRs []*net.IPNet

func init() {
	for _, block := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",  // IPv6 unique local
		"fe80::/10", // IPv6 link-local
	} {
		if _, cidr, err := net.ParseCIDR(block); err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Resolver maps IP addresses to 2-letter country codes.
type Resolver struct {
	mu        sync.RWMutex
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	enabled   bool
}

// countryRecord matches the GeoLite2-Country database structure.
type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// New creates a Resolver for the database at dbPath. An empty path disables
// lookups without error; a path that cannot be loaded returns the error but
// still yields a usable, disabled Resolver.
func New(dbPath string) (*Resolver, error) {
	r := &Resolver{dbPath: dbPath}
	if dbPath == "" {
		return r, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r, r.load()
}

// load opens or reopens the database. Caller holds the write lock.
func (r *Resolver) load() error {
	info, err := os.Stat(r.dbPath)
	if err != nil {
		r.enabled = false
		return fmt.Errorf("geoip database stat: %w", err)
	}

	// Unchanged on disk, nothing to do.
	if r.db != nil && info.ModTime().Equal(r.dbModTime) {
		return nil
	}

	if r.db != nil {
		_ = r.db.Close()
		r.db = nil
	}

	db, err := maxminddb.Open(r.dbPath)
	if err != nil {
		r.enabled = false
		return fmt.Errorf("geoip database open: %w", err)
	}

	r.db = db
	r.dbModTime = info.ModTime()
	r.enabled = true
	return nil
}

// Reload reopens the database if the file changed on disk. Safe to call
// periodically from the scheduler.
func (r *Resolver) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dbPath == "" {
		return nil
	}
	return r.load()
}

// Country returns the 2-letter ISO code for an IP, "LOCAL" for private and
// loopback addresses, or "" when the IP is invalid or lookups are disabled.
func (r *Resolver) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	if parsed.IsLoopback() || isPrivateIP(parsed) {
		return "LOCAL"
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.enabled || r.db == nil {
		return ""
	}

	var rec countryRecord
	if err := r.db.Lookup(parsed, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether database lookups are available.
func (r *Resolver) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Close releases the database.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		err := r.db.Close()
		r.db = nil
		r.enabled = false
		return err
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
