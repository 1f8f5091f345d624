package service

import (
	"regexp"
	"strings"
	"time"
)

// calendarDatePattern matches a bare YYYY-MM-DD calendar date.
var calendarDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateLayouts are tried in order for anything that is not a bare
// calendar date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ResolveDate picks the effective date for a transaction. A date the
// caller supplied explicitly always wins over one the normalizer
// suggested. A bare YYYY-MM-DD resolves to local midnight of that
// calendar day so it never drifts across a day boundary; anything
// else goes through the generic layouts. When nothing parses, the
// transaction lands on the current moment.
func ResolveDate(userSupplied, suggested string) time.Time {
	return resolveDateAt(userSupplied, suggested, time.Now)
}

func resolveDateAt(userSupplied, suggested string, now func() time.Time) time.Time {
	raw := strings.TrimSpace(userSupplied)
	if raw == "" {
		raw = strings.TrimSpace(suggested)
	}
	if raw == "" {
		return now()
	}

	if calendarDatePattern.MatchString(raw) {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			return t
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	return now()
}
