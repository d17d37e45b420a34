package models

import (
	"testing"
	"time"
)

func TestBucketMonthlyForecasts(t *testing.T) {
	amount := floatPtr(100000)
	rows := []DashboardForecastRow{
		// January: one completed percent line and one pending amount line.
		{ForecastInputTypePercent, 10, "2026-01-05", false, true, amount},
		{ForecastInputTypeAmount, 5000, "2026-01-20", false, false, amount},
		// March: a completed deduction.
		{ForecastInputTypeAmount, 2000, "2026-03-10", true, true, amount},
		// Wrong year and unparseable dates are dropped.
		{ForecastInputTypeAmount, 9999, "2025-06-01", false, true, amount},
		{ForecastInputTypeAmount, 9999, "sometime", false, true, amount},
		// Percent line with no known contract amount contributes nothing.
		{ForecastInputTypePercent, 50, "2026-02-01", false, true, nil},
	}

	total, invoiced := BucketMonthlyForecasts(rows, 2026)

	if !almostEqual(total[0], 15000) {
		t.Errorf("January total = %v, want 15000", total[0])
	}
	if !almostEqual(invoiced[0], 10000) {
		t.Errorf("January invoiced = %v, want 10000", invoiced[0])
	}
	if !almostEqual(total[1], 0) || !almostEqual(invoiced[1], 0) {
		t.Errorf("February = (%v, %v), want (0, 0)", total[1], invoiced[1])
	}
	if !almostEqual(total[2], -2000) || !almostEqual(invoiced[2], -2000) {
		t.Errorf("March = (%v, %v), want (-2000, -2000)", total[2], invoiced[2])
	}
	for month := 3; month < 12; month++ {
		if !almostEqual(total[month], 0) || !almostEqual(invoiced[month], 0) {
			t.Errorf("month %d = (%v, %v), want empty", month+1, total[month], invoiced[month])
		}
	}
}

func TestCountsAsNew(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		poDate *string
		want   bool
	}{
		{"today", strPtr("2026-03-15"), true},
		{"window start", strPtr("2026-02-28"), true},
		{"before window", strPtr("2026-02-27"), false},
		{"future po date excluded", strPtr("2026-03-16"), false},
		{"no po date", nil, false},
		{"unparseable po date", strPtr("soon"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countsAsNew(tt.poDate, today); got != tt.want {
				t.Errorf("countsAsNew(%v) = %v, want %v", tt.poDate, got, tt.want)
			}
		})
	}
}

func TestBucketMonthlyForecastsEmpty(t *testing.T) {
	total, invoiced := BucketMonthlyForecasts(nil, 2026)
	for month := 0; month < 12; month++ {
		if total[month] != 0 || invoiced[month] != 0 {
			t.Fatalf("expected all-zero buckets, month %d = (%v, %v)", month+1, total[month], invoiced[month])
		}
	}
}
