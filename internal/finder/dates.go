package finder

import (
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var longDateFormats = []string{
	"January 2, 2006",
	"2 January 2006",
	"02 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate reads a calendar date from s and returns midnight of that day in
// loc. Timestamps keep only their date part.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.ParseInLocation(isoDate, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)), true
	}
	for _, layout := range longDateFormats {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to the start of its day in t's own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}
