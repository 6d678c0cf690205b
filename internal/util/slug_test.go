// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple title", input: "Jazz Night", expected: "jazz-night"},
		{name: "punctuation", input: "Concert: Live!", expected: "concert-live"},
		{name: "numbers", input: "Festival 2026", expected: "festival-2026"},
		{name: "accents", input: "Soirée à Dakar", expected: "soiree-a-dakar"},
		{name: "elision", input: "L'été en fête", expected: "l-ete-en-fete"},
		{name: "typographic apostrophe", input: "Nuit d’hiver", expected: "nuit-d-hiver"},
		{name: "ligature", input: "Œuvre & cœur", expected: "oeuvre-coeur"},
		{name: "multiple spaces", input: "Hello   World", expected: "hello-world"},
		{name: "surrounding hyphens", input: " - Salon - ", expected: "salon"},
		{name: "only symbols", input: "!@#$%^&*()", expected: ""},
		{name: "non latin", input: "日本語タイトル", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_LongTitleCutAtWord(t *testing.T) {
	title := strings.Repeat("conference ", 10)
	got := Slugify(title)

	if len(got) > MaxSlugLength {
		t.Errorf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if !IsValidSlug(got) {
		t.Errorf("Slugify produced invalid slug %q", got)
	}
	if strings.HasSuffix(got, "-conf") {
		t.Errorf("slug %q should end on a whole word", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"jazz-night", true},
		{"festival-2026", true},
		{"123", true},
		{"", false},
		{"Jazz-Night", false},
		{"jazz night", false},
		{"jazz!night", false},
		{"-jazz", false},
		{"jazz-", false},
		{"jazz--night", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEventPath(t *testing.T) {
	if got := EventPath(12, "Jazz Night"); got != "/events/12/jazz-night" {
		t.Errorf("EventPath = %q", got)
	}
	if got := EventPath(3, "???"); got != "/events/3" {
		t.Errorf("EventPath without slug = %q", got)
	}
}
