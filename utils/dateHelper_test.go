package utils

import (
	"testing"
	"time"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Time
		wantOk bool
	}{
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"03/15/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"  2026-03-15  ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"15-03-2026", time.Time{}, false},
		{"2026-13-01", time.Time{}, false},
		{"tomorrow", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseFlexibleDate(tt.raw)
		if ok != tt.wantOk || !got.Equal(tt.want) {
			t.Errorf("ParseFlexibleDate(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestIsStrictIsoDate(t *testing.T) {
	valid := []string{"2026-03-15", "2026-12-31", "0001-01-01"}
	for _, s := range valid {
		if !IsStrictIsoDate(s) {
			t.Errorf("IsStrictIsoDate(%q) = false, want true", s)
		}
	}
	// Shape-only check; calendar validity is not its job.
	if !IsStrictIsoDate("2026-99-99") {
		t.Errorf("IsStrictIsoDate(%q) = false, want true (shape only)", "2026-99-99")
	}
	invalid := []string{"", "2026-3-15", "03/15/2026", " 2026-03-15", "2026-03-15 ", "20260315"}
	for _, s := range invalid {
		if IsStrictIsoDate(s) {
			t.Errorf("IsStrictIsoDate(%q) = true, want false", s)
		}
	}
}

func TestNormalizeDateString(t *testing.T) {
	if iso, ok := NormalizeDateString("03/15/2026"); !ok || iso != "2026-03-15" {
		t.Errorf("NormalizeDateString(us) = (%q, %v)", iso, ok)
	}
	if iso, ok := NormalizeDateString("2026-03-15"); !ok || iso != "2026-03-15" {
		t.Errorf("NormalizeDateString(iso) = (%q, %v)", iso, ok)
	}
	if _, ok := NormalizeDateString("soon"); ok {
		t.Error("NormalizeDateString should reject unparseable input")
	}
}
