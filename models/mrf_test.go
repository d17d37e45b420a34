package models

import "testing"

func TestParseMrfProjectRef(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
		wantPo   string
	}{
		{"Warehouse Fitout - PO# 12345", "Warehouse Fitout", "12345"},
		{"Warehouse Fitout - PO#12345", "Warehouse Fitout", "12345"},
		{"Warehouse Fitout", "Warehouse Fitout", ""},
		{"  Plain Name  ", "Plain Name", ""},
		{"Dash - Heavy - PO# 99", "Dash - Heavy", "99"},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, poNo := ParseMrfProjectRef(tt.raw)
		if name != tt.wantName || poNo != tt.wantPo {
			t.Errorf("ParseMrfProjectRef(%q) = (%q, %q), want (%q, %q)", tt.raw, name, poNo, tt.wantName, tt.wantPo)
		}
	}
}

func TestDefaultStatus(t *testing.T) {
	if got := defaultStatus(""); got != "Pending" {
		t.Errorf("defaultStatus(\"\") = %q, want Pending", got)
	}
	if got := defaultStatus("  "); got != "Pending" {
		t.Errorf("defaultStatus(blank) = %q, want Pending", got)
	}
	if got := defaultStatus("Released"); got != "Released" {
		t.Errorf("defaultStatus(Released) = %q", got)
	}
}
