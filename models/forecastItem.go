package models

import (
	"context"
	"math"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
)

// ForecastInputType is a closed enum; invalid strings are rejected at the
// boundary rather than stored.
type ForecastInputType string

const (
	ForecastInputTypePercent ForecastInputType = "percent"
	ForecastInputTypeAmount  ForecastInputType = "amount"
)

type ForecastItem struct {
	ID                  int               `gorm:"primary_key" json:"id"`
	ProjectId           int               `gorm:"index;not null" json:"project_id"`
	ForecastInputType   ForecastInputType `gorm:"type:enum('percent','amount');not null" json:"forecast_input_type"`
	ForecastInputValue  float64           `gorm:"not null" json:"forecast_input_value"`
	ForecastDate        string            `gorm:"size:20;not null" json:"forecast_date"`
	IsDeduction         bool              `gorm:"not null;default:false" json:"is_deduction"`
	IsForecastCompleted bool              `gorm:"not null;default:false" json:"is_forecast_completed"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

type NewForecastItem struct {
	ProjectId          int     `json:"project_id" binding:"required"`
	ForecastInputType  string  `json:"forecast_input_type" binding:"required"`
	ForecastInputValue float64 `json:"forecast_input_value"`
	ForecastDate       string  `json:"forecast_date" binding:"required"`
	IsDeduction        bool    `json:"is_deduction"`
}

// ParseForecastInputType normalizes the wire value into the closed enum.
// The legacy "deduction_percent" spelling is accepted and treated as percent
// (the deduction flag carries the sign).
func ParseForecastInputType(raw string) (ForecastInputType, bool) {
	switch raw {
	case "percent", "deduction_percent":
		return ForecastInputTypePercent, true
	case "amount":
		return ForecastInputTypeAmount, true
	default:
		return "", false
	}
}

func AddForecastItem(ctx context.Context, input *NewForecastItem) (*ForecastEntry, error) {
	db := config.GetDB()

	inputType, ok := ParseForecastInputType(input.ForecastInputType)
	if !ok {
		return nil, utils.InvalidInputf("invalid forecast_input_type %q", input.ForecastInputType)
	}
	forecastDate, ok := utils.NormalizeDateString(input.ForecastDate)
	if !ok {
		return nil, utils.InvalidInputf("invalid forecast_date %q", input.ForecastDate)
	}
	if _, err := utils.FetchSingleModel[Project](ctx, input.ProjectId); err != nil {
		return nil, err
	}

	limits := config.GetLimits()
	count, err := utils.ResourceCount[ForecastItem](ctx)
	if err != nil {
		return nil, err
	}
	if capReached(count, limits.ForecastLimit) {
		return nil, utils.ErrorCapacityExceeded
	}

	value := input.ForecastInputValue
	if input.IsDeduction {
		// Deductions store magnitude only; the flag carries the sign.
		value = math.Abs(value)
	}

	item := ForecastItem{
		ProjectId:          input.ProjectId,
		ForecastInputType:  inputType,
		ForecastInputValue: value,
		ForecastDate:       forecastDate,
		IsDeduction:        input.IsDeduction,
	}
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return GetForecastEntry(ctx, item.ID)
}

func DeleteForecastItem(ctx context.Context, id int) (*ForecastItem, error) {
	db := config.GetDB()

	item, err := utils.FetchSingleModel[ForecastItem](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ForecastEntry is a forecast item joined with its project's denormalized
// fields plus the resolved monetary and percentage equivalents.
type ForecastEntry struct {
	ID                  int               `json:"id"`
	ProjectId           int               `json:"project_id"`
	ProjectNo           *string           `json:"project_no"`
	ProjectName         string            `json:"project_name"`
	ProjectAmount       *float64          `json:"project_amount"`
	ProjectStatus       float64           `json:"project_status"`
	ForecastInputType   ForecastInputType `json:"forecast_input_type"`
	ForecastInputValue  float64           `json:"forecast_input_value"`
	ForecastDate        string            `json:"forecast_date"`
	IsDeduction         bool              `json:"is_deduction"`
	IsForecastCompleted bool              `json:"is_forecast_completed"`
	ForecastAmount      float64           `json:"forecast_amount"`
	ForecastPercent     float64           `json:"forecast_percent"`
}

const forecastEntrySelect = "forecast_items.id, forecast_items.project_id, projects.project_no, projects.project_name, projects.amount AS project_amount, projects.status AS project_status, forecast_items.forecast_input_type, forecast_items.forecast_input_value, forecast_items.forecast_date, forecast_items.is_deduction, forecast_items.is_forecast_completed"

func (e *ForecastEntry) resolve() {
	e.ForecastAmount = MonetaryValue(e.ForecastInputType, e.ForecastInputValue, e.IsDeduction, e.ProjectAmount)
	e.ForecastPercent = PercentValue(e.ForecastInputType, e.ForecastInputValue, e.IsDeduction, e.ProjectAmount)
}

func GetForecastEntry(ctx context.Context, id int) (*ForecastEntry, error) {
	db := config.GetDB()

	var entry ForecastEntry
	err := db.WithContext(ctx).
		Model(&ForecastItem{}).
		Select(forecastEntrySelect).
		Joins("JOIN projects ON projects.id = forecast_items.project_id").
		Where("forecast_items.id = ?", id).
		Take(&entry).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	entry.resolve()
	return &entry, nil
}

// GetForecastEntries lists every forecast line joined with project fields,
// ordered by forecast date then id.
func GetForecastEntries(ctx context.Context) ([]*ForecastEntry, error) {
	db := config.GetDB()

	var entries []*ForecastEntry
	if err := db.WithContext(ctx).
		Model(&ForecastItem{}).
		Select(forecastEntrySelect).
		Joins("JOIN projects ON projects.id = forecast_items.project_id").
		Order("forecast_items.forecast_date ASC, forecast_items.id ASC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.resolve()
	}
	return entries, nil
}
