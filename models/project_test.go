package models

import "testing"

func TestNormalizeProjectNo(t *testing.T) {
	tests := []struct {
		raw  string
		want *string
	}{
		{"P-001", strPtr("P-001")},
		{"  P-001  ", strPtr("P-001")},
		{"", nil},
		{"   ", nil},
		{"#N/A", nil},
		{"n/a", nil},
		{"NULL", nil},
		{"none", nil},
		{"0", strPtr("0")},
	}
	for _, tt := range tests {
		got := NormalizeProjectNo(tt.raw)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("NormalizeProjectNo(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("NormalizeProjectNo(%q) = %q, want %q", tt.raw, *got, *tt.want)
		}
	}
}
