package searchquality

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// relativePattern matches phrases like "3 hours ago" or "1 Week ago".
var relativePattern = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)

var relativeUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	// Months and years are approximated; provider age strings are coarse
	// anyway and only feed the recency score.
	"month": 30 * 24 * time.Hour,
	"year":  365 * 24 * time.Hour,
}

// literalLayouts are tried in order for absolute date strings.
var literalLayouts = []string{
	"Jan 02, 2006",
	"January 02, 2006",
	"2006-01-02",
}

// ParseDateString interprets the loose date strings search providers emit.
// It tries, in order: RFC 3339 (a trailing Z is accepted), relative phrases
// such as "2 days ago" anchored at now, a few literal layouts taken as UTC
// midnight, and finally a permissive catch-all parse. The returned time is
// always in UTC. ok is false when nothing matched.
func ParseDateString(raw string, now time.Time) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), true
	}

	if m := relativePattern.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			unit := relativeUnits[strings.ToLower(m[2])]
			return now.UTC().Add(-time.Duration(n) * unit), true
		}
	}

	for _, layout := range literalLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, true
		}
	}

	// dateparse can return a zero time with a nil error for some non-date
	// strings; treat that as no match rather than a year-0 timestamp.
	if ts, err := dateparse.ParseIn(raw, time.UTC); err == nil && !ts.IsZero() {
		return ts.UTC(), true
	}

	return time.Time{}, false
}
