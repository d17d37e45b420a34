package models

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Warning caps keep batch responses bounded; the counts stay exact.
const (
	CsvWarningCap  = 100
	JsonWarningCap = 50
)

// headerAliases maps the spreadsheet column spellings seen in the office's
// exports onto canonical field names. Lookup happens after lowercasing and
// trimming; anything not found falls back to squashed-alphanumeric matching.
var headerAliases = map[string]string{
	"project #":        "project_no",
	"project no":       "project_no",
	"project no.":      "project_no",
	"project number":   "project_no",
	"project name":     "project_name",
	"project":          "project_name",
	"client":           "client",
	"customer":         "client",
	"ds":               "ds",
	"bs":               "ds",
	"business segment": "ds",
	"segment":          "ds",
	"amount":           "amount",
	"contract amount":  "amount",
	"po amount":        "amount",
	"status":           "status",
	"status (%)":       "status",
	"status %":         "status",
	"% complete":       "status",
	"remaining amount": "remaining_amount",
	"remaining":        "remaining_amount",
	"po date":          "po_date",
	"po no":            "po_no",
	"po no.":           "po_no",
	"po number":        "po_no",
	"po #":             "po_no",
	"date completed":   "date_completed",
	"completion date":  "date_completed",
	"completed":        "date_completed",
	"pic":              "pic",
	"person in charge": "pic",
	"address":          "address",
	"site address":     "address",
}

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// squashedAliases is the fallback index: alias keys with all punctuation and
// spacing removed, so "Status(%)" still maps to status.
var squashedAliases = func() map[string]string {
	m := make(map[string]string, len(headerAliases))
	for alias, canonical := range headerAliases {
		m[nonAlnumPattern.ReplaceAllString(alias, "")] = canonical
	}
	return m
}()

// NormalizeHeader maps one raw column header onto its canonical field name;
// unknown headers come back lowercased with spaces as underscores so they
// can be reported in warnings.
func NormalizeHeader(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := headerAliases[s]; ok {
		return canonical
	}
	if canonical, ok := squashedAliases[nonAlnumPattern.ReplaceAllString(s, "")]; ok {
		return canonical
	}
	return strings.ReplaceAll(s, " ", "_")
}

type ImportSummary struct {
	Inserted          int      `json:"inserted"`
	Updated           int      `json:"updated"`
	Skipped           int      `json:"skipped"`
	Warnings          []string `json:"warnings"`
	WarningsTruncated bool     `json:"warnings_truncated"`
}

func (s *ImportSummary) warn(limit int, format string, args ...any) {
	if len(s.Warnings) >= limit {
		s.WarningsTruncated = true
		return
	}
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// ImportProjects upserts one project per row inside a single transaction.
// A bad row is skipped with a warning, not fatal to the batch; only
// infrastructure failures abort the whole import.
func ImportProjects(ctx context.Context, rows []map[string]any, warningCap int) (*ImportSummary, error) {
	db := config.GetDB()
	summary := &ImportSummary{Warnings: []string{}}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// project_no -> id for upsert routing, fetched once.
		type noId struct {
			ProjectNo string
			ID        int
		}
		var existing []noId
		if err := tx.Model(&Project{}).
			Where("project_no IS NOT NULL").
			Select("project_no, id").
			Scan(&existing).Error; err != nil {
			return err
		}
		idByProjectNo := make(map[string]int, len(existing))
		for _, e := range existing {
			idByProjectNo[e.ProjectNo] = e.ID
		}

		for i, row := range rows {
			rowNum := i + 1
			outcome, err := upsertImportRow(tx, row, idByProjectNo, rowNum, summary, warningCap)
			if err != nil {
				return err
			}
			switch outcome {
			case importInserted:
				summary.Inserted++
			case importUpdated:
				summary.Updated++
			case importSkipped:
				summary.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

type importOutcome int

const (
	importInserted importOutcome = iota
	importUpdated
	importSkipped
)

// upsertImportRow builds one project from a raw row and inserts or updates
// it. Row-level problems are recorded as warnings and reported as skipped;
// only errors that should abort the batch are returned.
func upsertImportRow(tx *gorm.DB, row map[string]any, idByProjectNo map[string]int, rowNum int, summary *ImportSummary, warningCap int) (importOutcome, error) {
	fields := make(map[string]string, len(row))
	for key, value := range row {
		fields[NormalizeHeader(key)] = asString(value)
	}

	name := strings.TrimSpace(fields["project_name"])
	if name == "" {
		summary.warn(warningCap, "row %d: missing project name, skipped", rowNum)
		return importSkipped, nil
	}

	projectNo := NormalizeProjectNo(fields["project_no"])

	var amount *float64
	if raw := strings.TrimSpace(fields["amount"]); raw != "" {
		if f, ok := utils.ParseLooseFloat(raw); ok {
			amount = &f
		} else {
			summary.warn(warningCap, "row %d: unparseable amount %q, treated as unknown", rowNum, raw)
		}
	}

	status := 0.0
	if raw := strings.TrimSpace(fields["status"]); raw != "" {
		if f, ok := utils.ParseLooseFloat(raw); ok {
			status = clampStatus(f)
		} else {
			summary.warn(warningCap, "row %d: invalid status %q, defaulted to 0", rowNum, raw)
		}
	}

	poDate := importDate(fields["po_date"], "po_date", rowNum, summary, warningCap)
	dateCompleted := importDate(fields["date_completed"], "date_completed", rowNum, summary, warningCap)

	project := Project{
		ProjectNo:       projectNo,
		ProjectName:     name,
		Client:          fields["client"],
		BusinessSegment: fields["ds"],
		Amount:          amount,
		Status:          status,
		PoDate:          poDate,
		PoNo:            fields["po_no"],
		DateCompleted:   dateCompleted,
		Pic:             fields["pic"],
		Address:         fields["address"],
	}
	project.RemainingAmount = CalculateRemaining(amount, &status)

	if projectNo != nil {
		if id, ok := idByProjectNo[*projectNo]; ok {
			if err := tx.Model(&Project{ID: id}).Updates(map[string]any{
				"project_name":     project.ProjectName,
				"client":           project.Client,
				"bs":               project.BusinessSegment,
				"amount":           project.Amount,
				"status":           project.Status,
				"remaining_amount": project.RemainingAmount,
				"po_date":          project.PoDate,
				"po_no":            project.PoNo,
				"date_completed":   project.DateCompleted,
				"pic":              project.Pic,
				"address":          project.Address,
			}).Error; err != nil {
				summary.warn(warningCap, "row %d: update failed (%s), skipped", rowNum, err)
				return importSkipped, nil
			}
			return importUpdated, nil
		}
	}

	if err := tx.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			summary.warn(warningCap, "row %d: duplicate project number %q, skipped", rowNum, utils.DereferencePtr(projectNo))
			return importSkipped, nil
		}
		summary.warn(warningCap, "row %d: insert failed (%s), skipped", rowNum, err)
		return importSkipped, nil
	}
	if projectNo != nil {
		idByProjectNo[*projectNo] = project.ID
	}
	return importInserted, nil
}

func importDate(raw string, field string, rowNum int, summary *ImportSummary, warningCap int) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	iso, ok := utils.NormalizeDateString(s)
	if !ok {
		summary.warn(warningCap, "row %d: unparseable %s %q, treated as empty", rowNum, field, s)
		return nil
	}
	return &iso
}

// ParseCsvProjects reads a CSV export into raw row maps; the first record
// supplies the headers.
func ParseCsvProjects(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, errors.New("CSV file is empty")
	}

	headers := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseXlsxProjects reads the first sheet of an XLSX workbook into raw row
// maps, mirroring the CSV path.
func ParseXlsxProjects(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("XLSX file has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, errors.New("XLSX sheet is empty")
	}

	headers := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
