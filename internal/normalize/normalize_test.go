package normalize

import (
	"testing"
)

func TestModelText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already clean", "HE36212R", "HE36212R"},
		{"Lowercase", "he36212r", "HE36212R"},
		{"Hyphenated", "HE-36-212", "HE36212"},
		{"En dash", "HE–36212", "HE36212"},
		{"Non-breaking hyphen", "AMH‑24152XX", "AMH24152XX"},
		{"Embedded spaces", " HE 36 212 ", "HE36212"},
		{"Non-breaking space", "HE 36212", "HE36212"},
		{"Tab noise", "HE\t36212", "HE36212"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ModelText(tt.input)
			if result != tt.expected {
				t.Errorf("ModelText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPlausible(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"HE36212", true},
		{"AMH24152XXR", true},
		{"TOTAL", false},          // no digit
		{"1234567", false},        // no letter
		{"HE36", false},           // too short
		{"HE362121234567890", false}, // too long
		{"HE36212?", false},       // punctuation
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Plausible(tt.input); got != tt.expected {
				t.Errorf("Plausible(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
