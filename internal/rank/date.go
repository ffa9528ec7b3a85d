package rank

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Month-first wins over day-first for
// ambiguous input such as 01/02/2025.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"2-1-2006",
	"2006/1/2",
	"2/1/2006",
}

// ParseDate turns a date-like value into a calendar date at midnight UTC.
// time.Time values keep their calendar date in their own location; strings
// are trimmed and matched against dateLayouts. Anything else, including
// unparsable text, reports false.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return dateOf(d), true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false
		}
		return dateOf(*d), true
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// dateOf strips the clock from t, keeping the calendar date t has in its
// own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayNumber counts days since the Unix epoch for the calendar date of t.
func dayNumber(t time.Time) int64 {
	return dateOf(t).Unix() / 86400
}
