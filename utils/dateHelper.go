package utils

import (
	"regexp"
	"strings"
	"time"
)

const IsoDateLayout = "2006-01-02"

var strictIsoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseFlexibleDate accepts ISO YYYY-MM-DD first, then US MM/DD/YYYY.
// Anything else is not a date; ok=false is the universal "unparsable" signal.
func ParseFlexibleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(IsoDateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("01/02/2006", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// IsStrictIsoDate is a shape-only YYYY-MM-DD check, used where flexible
// parsing is intentionally not wanted (task dates).
func IsStrictIsoDate(raw string) bool {
	return strictIsoDatePattern.MatchString(raw)
}

// NormalizeDateString re-renders any parseable date as ISO; ok=false when
// the input cannot be parsed flexibly.
func NormalizeDateString(raw string) (string, bool) {
	t, ok := ParseFlexibleDate(raw)
	if !ok {
		return "", false
	}
	return t.Format(IsoDateLayout), true
}
