package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    float64
		wantErr bool
	}{
		{"json number", 12.5, 12.5, false},
		{"numeric string", "42", 42, false},
		{"string with spaces", "  9.99 ", 9.99, false},
		{"json.Number", json.Number("3.14"), 3.14, false},
		{"negative becomes positive", -50.0, 50, false},
		{"rounds to cents", 10.005, 10.01, false},
		{"zero", 0.0, 0, true},
		{"word", "fifty", 0, true},
		{"empty string", "", 0, true},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("parseAmount(%v) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%v) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseAmount(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFilterDate(t *testing.T) {
	t.Parallel()

	got, ok := parseFilterDate("2024-03-01")
	if !ok {
		t.Fatal("expected calendar date to parse")
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("parseFilterDate = %v, want %v", got, want)
	}

	if _, ok := parseFilterDate("whenever"); ok {
		t.Error("expected garbage date to be ignored")
	}
	if _, ok := parseFilterDate(""); ok {
		t.Error("expected empty date to be ignored")
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	if got := truncateRunes("short", 30); got != "short" {
		t.Errorf("truncateRunes = %q, want unchanged", got)
	}

	long := "Dining and drinks with the whole team after the launch"
	if got := truncateRunes(long, 30); len([]rune(got)) != 30 {
		t.Errorf("truncateRunes length = %d, want 30", len([]rune(got)))
	}

	// Multibyte input must be cut on rune boundaries.
	if got := truncateRunes("ééééé", 3); got != "ééé" {
		t.Errorf("truncateRunes = %q, want %q", got, "ééé")
	}
}
