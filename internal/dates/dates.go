// Package dates is the single place where user- and storage-supplied date
// strings are parsed. Parsing never fails loudly: callers get a Result that is
// either a valid calendar date or the original, unparseable input.
package dates

import (
	"strings"
	"time"
)

// Layout is the zero-padded calendar date format used on the wire.
const Layout = "2006-01-02"

// accepted layouts, tried in order. Timestamps written by older clients
// (toISOString) are reduced to their calendar date.
var layouts = []string{
	Layout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04",
}

// Result is the outcome of parsing a date string.
type Result struct {
	Time     time.Time
	Original string
	OK       bool
}

// Valid reports whether the input parsed.
func (r Result) Valid() bool { return r.OK }

// String returns the canonical yyyy-MM-dd form, or the original input when
// the value did not parse.
func (r Result) String() string {
	if !r.OK {
		return r.Original
	}
	return r.Time.Format(Layout)
}

// Parse parses s as a calendar date. The returned time is midnight UTC of the
// calendar day so that week arithmetic is not affected by DST transitions.
func Parse(s string) Result {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Result{Original: s}
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return Result{
			Time:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Original: s,
			OK:       true,
		}
	}
	return Result{Original: s}
}

// Format returns the calendar date of t in t's own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Day truncates t to its calendar day, expressed as midnight UTC, matching
// the values returned by Parse.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize rewrites s in canonical form when it parses and returns it
// unchanged otherwise.
func Normalize(s string) string {
	return Parse(s).String()
}

// Compare orders two date strings. Unparseable values sort before valid ones
// and are compared lexicographically among themselves.
func Compare(a, b string) int {
	ra, rb := Parse(a), Parse(b)
	switch {
	case ra.OK && rb.OK:
		return ra.Time.Compare(rb.Time)
	case ra.OK:
		return 1
	case rb.OK:
		return -1
	default:
		return strings.Compare(a, b)
	}
}
