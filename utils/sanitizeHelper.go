package utils

import (
	"math"
	"strings"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// intEpsilon distinguishes "truly integral" from floating noise.
const intEpsilon = 1e-9

// ParseLooseFloat parses a loosely formatted numeric string the way
// spreadsheet exports produce them: surrounding whitespace, thousands
// separators ("1,234,567.89") and a trailing percent sign are tolerated.
// ok is false for empty strings and anything that still fails to parse;
// it never panics and never returns NaN.
func ParseLooseFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := dec.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseLooseFloatDefault is ParseLooseFloat with a fallback value.
func ParseLooseFloatDefault(raw string, def float64) float64 {
	if f, ok := ParseLooseFloat(raw); ok {
		return f
	}
	return def
}

// ParseLooseInt parses via ParseLooseFloat and requires the value to be
// within epsilon of an integer; otherwise it truncates and logs a warning.
func ParseLooseInt(raw string) (int, bool) {
	f, ok := ParseLooseFloat(raw)
	if !ok {
		return 0, false
	}
	rounded := math.Round(f)
	if math.Abs(f-rounded) < intEpsilon {
		return int(rounded), true
	}
	config.GetLogger().WithFields(logrus.Fields{
		"module": "utils",
		"raw":    raw,
		"parsed": f,
	}).Warn("non-integer value truncated")
	return int(f), true
}
