// Package instant parses the heterogeneous date strings found in task logs
// into UTC instants and does the elapsed-minute arithmetic over them.
package instant

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CanonicalLayout is the serialized form of every instant emitted in reports.
const CanonicalLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the calendar date form used for assignment dates.
const DateLayout = "2006-01-02"

var (
	// ErrEmpty is returned for blank input. Callers treat it as a missing value.
	ErrEmpty = errors.New("empty date")

	// ErrUnparsableDate is returned when no known layout matches.
	ErrUnparsableDate = errors.New("unparsable date")
)

// strictLayouts are tried in order before any lenient parsing.
var strictLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 3:04:05.000 PM",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05.000Z07:00",
}

// lenientLayouts are tried after the strict layouts and before dateparse.
var lenientLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
}

var embeddedPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z`)

// Parse converts raw into a UTC instant.
// Layouts without a zone are read as UTC.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, raw)
	}
	return t.UTC(), nil
}

// ParsePtr is Parse returning nil instead of an error.
func ParsePtr(raw string) *time.Time {
	t, err := Parse(raw)
	if err != nil {
		return nil
	}
	return &t
}

// ElapsedMinutes returns |b - a| in whole minutes, truncated.
// It returns nil when either endpoint is missing.
func ElapsedMinutes(a, b *time.Time) *int {
	if a == nil || b == nil {
		return nil
	}
	minutes := int(b.Sub(*a).Abs() / time.Minute)
	return &minutes
}

// ExtractEmbedded finds the first ISO-8601 millisecond UTC timestamp in text.
func ExtractEmbedded(text string) *time.Time {
	match := embeddedPattern.FindString(text)
	if match == "" {
		return nil
	}
	return ParsePtr(match)
}

// Format renders t in CanonicalLayout, or "" for nil.
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(CanonicalLayout)
}

// Date renders the UTC calendar date of t, or "" for nil.
func Date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
