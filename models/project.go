package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
	"gorm.io/gorm"
)

type Project struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProjectNo       *string         `gorm:"size:100;unique" json:"project_no"`
	ProjectName     string          `gorm:"size:255;not null" json:"project_name" binding:"required"`
	Client          string          `gorm:"size:255" json:"client"`
	BusinessSegment string          `gorm:"column:bs;size:100" json:"ds"`
	Amount          *float64        `json:"amount"`
	Status          float64         `gorm:"not null;default:0" json:"status"`
	RemainingAmount *float64        `json:"remaining_amount"`
	PoDate          *string         `gorm:"size:20" json:"po_date"`
	PoNo            string          `gorm:"size:100" json:"po_no"`
	DateCompleted   *string         `gorm:"size:20" json:"date_completed"`
	Pic             string          `gorm:"size:100" json:"pic"`
	Address         string          `gorm:"size:255" json:"address"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Updates         []ProjectUpdate `gorm:"constraint:OnDelete:CASCADE" json:"updates,omitempty"`
	ForecastItems   []ForecastItem  `gorm:"constraint:OnDelete:CASCADE" json:"forecast_items,omitempty"`
	Tasks           []ProjectTask   `gorm:"constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

type NewProject struct {
	ProjectNo       string   `json:"project_no"`
	ProjectName     string   `json:"project_name" binding:"required"`
	Client          string   `json:"client"`
	BusinessSegment string   `json:"ds"`
	Amount          *float64 `json:"amount"`
	Status          *float64 `json:"status"`
	PoDate          string   `json:"po_date"`
	PoNo            string   `json:"po_no"`
	DateCompleted   string   `json:"date_completed"`
	Pic             string   `json:"pic"`
	Address         string   `json:"address"`
}

// projectNoSentinels are spreadsheet artifacts meaning "no project number".
var projectNoSentinels = map[string]bool{
	"":     true,
	"#N/A": true,
	"N/A":  true,
	"NULL": true,
	"NONE": true,
}

// NormalizeProjectNo maps placeholder strings to nil so the unique index
// only applies to real numbers.
func NormalizeProjectNo(raw string) *string {
	s := strings.TrimSpace(raw)
	if projectNoSentinels[strings.ToUpper(s)] {
		return nil
	}
	return &s
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {
	db := config.GetDB()

	if strings.TrimSpace(input.ProjectName) == "" {
		return nil, utils.InvalidInputf("project_name is required")
	}

	status := 0.0
	if input.Status != nil {
		status = clampStatus(*input.Status)
	}

	project := Project{
		ProjectNo:       NormalizeProjectNo(input.ProjectNo),
		ProjectName:     strings.TrimSpace(input.ProjectName),
		Client:          input.Client,
		BusinessSegment: input.BusinessSegment,
		Amount:          input.Amount,
		Status:          status,
		PoDate:          normalizeOptionalDate(input.PoDate),
		PoNo:            input.PoNo,
		DateCompleted:   normalizeOptionalDate(input.DateCompleted),
		Pic:             input.Pic,
		Address:         input.Address,
	}
	project.RemainingAmount = CalculateRemaining(project.Amount, &project.Status)

	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		return nil, err
	}
	return &project, nil
}

// projectFieldUpdater validates one incoming field value and returns the
// column value to persist.
type projectFieldUpdater func(value any) (any, error)

var projectUpdatableFields = map[string]projectFieldUpdater{
	"project_no": func(v any) (any, error) {
		return NormalizeProjectNo(asString(v)), nil
	},
	"project_name": func(v any) (any, error) {
		name := strings.TrimSpace(asString(v))
		if name == "" {
			return nil, utils.InvalidInputf("project_name cannot be empty")
		}
		return name, nil
	},
	"client":  func(v any) (any, error) { return asString(v), nil },
	"ds":      func(v any) (any, error) { return asString(v), nil },
	"po_no":   func(v any) (any, error) { return asString(v), nil },
	"pic":     func(v any) (any, error) { return asString(v), nil },
	"address": func(v any) (any, error) { return asString(v), nil },
	"amount": func(v any) (any, error) {
		return asNullableFloat(v)
	},
	"status": func(v any) (any, error) {
		f, err := asNullableFloat(v)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return 0.0, nil
		}
		return clampStatus(*f), nil
	},
	"po_date": func(v any) (any, error) {
		return asNullableDate(v)
	},
	"date_completed": func(v any) (any, error) {
		return asNullableDate(v)
	},
}

// columnForField maps JSON field names to DB columns where they differ.
var columnForField = map[string]string{"ds": "bs"}

// UpdateProjectFields applies a partial update limited to the allowed field
// set, recomputing the remaining balance whenever amount or status moved.
func UpdateProjectFields(ctx context.Context, id int, fields map[string]any) (*Project, error) {
	db := config.GetDB()

	project, err := utils.FetchSingleModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	for field, raw := range fields {
		updater, ok := projectUpdatableFields[field]
		if !ok {
			return nil, utils.InvalidInputf("field %q cannot be updated", field)
		}
		value, err := updater(raw)
		if err != nil {
			return nil, err
		}
		column := field
		if mapped, ok := columnForField[field]; ok {
			column = mapped
		}
		updates[column] = value
	}
	if len(updates) == 0 {
		return project, nil
	}

	_, amountTouched := updates["amount"]
	_, statusTouched := updates["status"]
	if amountTouched || statusTouched {
		amount := project.Amount
		if amountTouched {
			amount = asFloatPtr(updates["amount"])
		}
		status := project.Status
		if statusTouched {
			status = updates["status"].(float64)
		}
		updates["remaining_amount"] = CalculateRemaining(amount, &status)
	}

	if err := db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		return nil, err
	}
	return utils.FetchSingleModel[Project](ctx, id)
}

func DeleteProject(ctx context.Context, id int) (*Project, error) {
	db := config.GetDB()

	project, err := utils.FetchSingleModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	// Children carry ON DELETE CASCADE constraints; one delete is enough,
	// but tasks self-reference with SET NULL so parents must go in order.
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&ProjectTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&ForecastItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&ProjectUpdate{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	return utils.FetchSingleModel[Project](ctx, id)
}

// normalizeOptionalDate renders a flexible date input as ISO, nil when blank
// or unparseable.
func normalizeOptionalDate(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	iso, ok := utils.NormalizeDateString(raw)
	if !ok {
		return nil
	}
	return &iso
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// asNullableFloat accepts JSON numbers and loosely formatted strings.
func asNullableFloat(v any) (*float64, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &value, nil
	case int:
		f := float64(value)
		return &f, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}
		f, ok := utils.ParseLooseFloat(value)
		if !ok {
			return nil, utils.InvalidInputf("invalid numeric value %q", value)
		}
		return &f, nil
	default:
		return nil, utils.InvalidInputf("invalid numeric value %v", v)
	}
}

func asNullableDate(v any) (*string, error) {
	s := asString(v)
	if s == "" {
		return nil, nil
	}
	iso, ok := utils.NormalizeDateString(s)
	if !ok {
		return nil, utils.InvalidInputf("invalid date %q (expected YYYY-MM-DD or MM/DD/YYYY)", s)
	}
	return &iso, nil
}

func asFloatPtr(v any) *float64 {
	if f, ok := v.(*float64); ok {
		return f
	}
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}
