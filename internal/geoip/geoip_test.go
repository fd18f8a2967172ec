// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import "testing"

func TestNew_Disabled(t *testing.T) {
	r, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	if r.Enabled() {
		t.Error("resolver enabled without a database")
	}
	if got := r.Country("8.8.8.8"); got != "" {
		t.Errorf("Country() = %q, want empty", got)
	}
}

func TestNew_MissingFile(t *testing.T) {
	r, err := New("/nonexistent/GeoLite2-Country.mmdb")
	if err == nil {
		t.Error("expected error for missing database file")
	}
	if r == nil {
		t.Fatal("expected usable resolver even on load failure")
	}
	if r.Enabled() {
		t.Error("resolver enabled after failed load")
	}
}

func TestCountry_LocalAddresses(t *testing.T) {
	r, _ := New("")

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", "LOCAL"},
		{"::1", "LOCAL"},
		{"10.1.2.3", "LOCAL"},
		{"172.16.0.9", "LOCAL"},
		{"192.168.1.50", "LOCAL"},
		{"fe80::1", "LOCAL"},
		{"not-an-ip", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := r.Country(tt.ip); got != tt.want {
				t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}

func TestReload_NoPath(t *testing.T) {
	r, _ := New("")
	if err := r.Reload(); err != nil {
		t.Errorf("Reload() error = %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	r, _ := New("")
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
