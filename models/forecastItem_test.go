package models

import "testing"

func TestParseForecastInputType(t *testing.T) {
	tests := []struct {
		raw    string
		want   ForecastInputType
		wantOk bool
	}{
		{"percent", ForecastInputTypePercent, true},
		{"amount", ForecastInputTypeAmount, true},
		// Legacy spelling from older clients; the deduction flag carries
		// the sign, so it collapses to percent.
		{"deduction_percent", ForecastInputTypePercent, true},
		{"Percent", "", false},
		{"percentage", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseForecastInputType(tt.raw)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("ParseForecastInputType(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOk)
		}
	}
}
