package utils

import (
	"math"
	"testing"
)

func TestParseLooseFloat(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOk bool
	}{
		{"100", 100, true},
		{"  100.5  ", 100.5, true},
		{"1,250,000", 1250000, true},
		{"1,250,000.75", 1250000.75, true},
		{"85%", 85, true},
		{"85 %", 85, true},
		{"-42.5", -42.5, true},
		{"", 0, false},
		{"   ", 0, false},
		{"%", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLooseFloat(tt.raw)
		if ok != tt.wantOk || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseLooseFloat(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestParseLooseFloatDefault(t *testing.T) {
	if got := ParseLooseFloatDefault("not a number", 7); got != 7 {
		t.Errorf("ParseLooseFloatDefault() = %v, want 7", got)
	}
	if got := ParseLooseFloatDefault("3.5", 7); got != 3.5 {
		t.Errorf("ParseLooseFloatDefault() = %v, want 3.5", got)
	}
}
