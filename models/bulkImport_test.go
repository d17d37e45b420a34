package models

import (
	"strings"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Project #", "project_no"},
		{"project no.", "project_no"},
		{"PROJECT NUMBER", "project_no"},
		{"Project Name", "project_name"},
		{"Customer", "client"},
		{"Business Segment", "ds"},
		{"BS", "ds"},
		{"Status (%)", "status"},
		{"Status(%)", "status"},
		{"% Complete", "status"},
		{"PO Amount", "amount"},
		{"P.O. No", "po_no"},
		{"Completion Date", "date_completed"},
		{"Person In Charge", "pic"},
		{"  po date  ", "po_date"},
		{"Some Custom Column", "some_custom_column"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.raw); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseCsvProjects(t *testing.T) {
	csvData := "Project Name,Project #,Amount\n" +
		"Warehouse Fitout,P-001,\"1,250,000\"\n" +
		"Office Renovation,P-002,80000\n"

	rows, err := ParseCsvProjects(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCsvProjects() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["Project Name"] != "Warehouse Fitout" {
		t.Errorf("row 0 name = %v", rows[0]["Project Name"])
	}
	if rows[0]["Amount"] != "1,250,000" {
		t.Errorf("row 0 amount = %v", rows[0]["Amount"])
	}
	if rows[1]["Project #"] != "P-002" {
		t.Errorf("row 1 project no = %v", rows[1]["Project #"])
	}
}

func TestParseCsvProjectsRaggedRows(t *testing.T) {
	csvData := "Project Name,Client\nShort Row\n"
	rows, err := ParseCsvProjects(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCsvProjects() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if _, ok := rows[0]["Client"]; ok {
		t.Errorf("short row should not carry the missing column")
	}
}

func TestParseCsvProjectsEmpty(t *testing.T) {
	if _, err := ParseCsvProjects(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestImportSummaryWarnCap(t *testing.T) {
	s := &ImportSummary{}
	for i := 0; i < 10; i++ {
		s.warn(3, "warning %d", i)
	}
	if len(s.Warnings) != 3 {
		t.Errorf("got %d warnings, want 3", len(s.Warnings))
	}
	if !s.WarningsTruncated {
		t.Error("expected truncation flag")
	}
}
