// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"punctuation", "News: Open House 2026!", "news-open-house-2026"},
		{"multiple spaces", "a  b   c", "a-b-c"},
		{"leading trailing", " -edge case- ", "edge-case"},
		{"already slug", "about-us", "about-us"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyTransliterates(t *testing.T) {
	// Non-Latin input must still produce an ASCII slug
	got := Slugify("北京 2026")
	if got == "" {
		t.Fatal("Slugify should transliterate non-Latin input, got empty string")
	}
	if !IsValidSlug(got) {
		t.Errorf("Slugify produced invalid slug %q", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"about", true},
		{"about-us", true},
		{"page-2", true},
		{"", false},
		{"About", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"with space", false},
		{"under_score", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.slug); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
