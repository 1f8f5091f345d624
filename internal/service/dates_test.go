package service

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func TestResolveDate_UserWinsOverSuggestion(t *testing.T) {
	t.Parallel()

	got := resolveDateAt("2024-03-01", "2024-04-20", fixedNow)

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ResolveDate = %v, want %v", got, want)
	}
}

func TestResolveDate_CalendarDateIsLocalMidnight(t *testing.T) {
	t.Parallel()

	got := resolveDateAt("2024-03-01", "", fixedNow)

	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 1 {
		t.Errorf("ResolveDate landed on %v, want March 1 2024", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("ResolveDate = %v, want local midnight", got)
	}
}

func TestResolveDate_FallsBackToSuggestion(t *testing.T) {
	t.Parallel()

	got := resolveDateAt("", "2024-04-20", fixedNow)

	want := time.Date(2024, 4, 20, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ResolveDate = %v, want %v", got, want)
	}
}

func TestResolveDate_RFC3339(t *testing.T) {
	t.Parallel()

	got := resolveDateAt("2024-03-01T15:04:05Z", "", fixedNow)

	want := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ResolveDate = %v, want %v", got, want)
	}
}

func TestResolveDate_Unparseable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user string
		ai   string
	}{
		{"both empty", "", ""},
		{"garbage user input", "next tuesday-ish", ""},
		{"garbage suggestion", "", "not-a-date"},
		{"whitespace only", "   ", "  "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveDateAt(tt.user, tt.ai, fixedNow)
			if !got.Equal(fixedNow()) {
				t.Errorf("ResolveDate = %v, want fallback %v", got, fixedNow())
			}
		})
	}
}
