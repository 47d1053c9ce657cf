package compare

import (
	"strings"
	"time"
)

type canonicalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// parseDate canonicalizes a raw date string under the configured formats.
// It fails when no format matches, and also when two configured formats
// parse the same value to different calendar days: an ambiguous date must
// surface as a parse failure, never as a silent interpretation.
func parseDate(raw string, formats []string) (canonicalDate, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return canonicalDate{}, false
	}
	var found canonicalDate
	matched := false
	for _, layout := range formats {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		d := canonicalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
		if matched && d != found {
			return canonicalDate{}, false
		}
		found = d
		matched = true
	}
	return found, matched
}
