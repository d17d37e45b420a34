package models

import "testing"

func TestCapReached(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		limit int
		want  bool
	}{
		{"empty collection", 0, 30, false},
		{"one below the cap", 29, 30, false},
		{"at the cap", 30, 30, true},
		{"over the cap", 31, 30, true},
		{"zero limit rejects everything", 0, 0, true},
		{"global forecast cap boundary", 99, 100, false},
		{"global forecast cap reached", 100, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capReached(tt.count, tt.limit); got != tt.want {
				t.Errorf("capReached(%d, %d) = %v, want %v", tt.count, tt.limit, got, tt.want)
			}
		})
	}
}
