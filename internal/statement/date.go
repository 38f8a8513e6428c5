package statement

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when no explicit format matches.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"2006/1/2",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

var formatTokens = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"M", "1",
	"DD", "02",
	"D", "2",
)

// layoutFromFormat turns a user-facing format such as "MM/DD/YYYY" into a Go layout.
// Strings that already look like a Go layout are returned unchanged.
func layoutFromFormat(format string) string {
	if strings.Contains(format, "2006") || strings.Contains(format, "06") {
		return format
	}
	return formatTokens.Replace(strings.ToUpper(format))
}

// parseDate parses a statement date and truncates it to a UTC calendar date.
func parseDate(raw, format string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if format != "" {
		if t, err := time.Parse(layoutFromFormat(format), s); err == nil {
			return calendarDate(t), nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// calendarDate drops the time of day, keeping the date as written.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
