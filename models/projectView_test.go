package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestRunningWeeks(t *testing.T) {
	today := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name          string
		poDate        *string
		dateCompleted *string
		want          *int
	}{
		{"no po date", nil, nil, nil},
		{"unparseable po date", strPtr("soon"), nil, nil},
		{"po date today is week one", strPtr("2026-03-15"), nil, intPtr(1)},
		{"six days in is still week one", strPtr("2026-03-09"), nil, intPtr(1)},
		{"seven days in starts week two", strPtr("2026-03-08"), nil, intPtr(2)},
		{"future po date", strPtr("2026-04-01"), nil, intPtr(0)},
		{"window closes at completion", strPtr("2026-01-01"), strPtr("2026-01-15"), intPtr(3)},
		{"future completion ignored", strPtr("2026-03-01"), strPtr("2026-06-01"), intPtr(3)},
		{"unparseable completion ignored", strPtr("2026-03-01"), strPtr("later"), intPtr(3)},
		{"us format po date", strPtr("03/08/2026"), nil, intPtr(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunningWeeks(tt.poDate, tt.dateCompleted, today)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("RunningWeeks() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("RunningWeeks() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func intPtr(i int) *int { return &i }
