package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
)

// newProjectWindowDays defines how fresh a PO date must be for the project
// to count as "new" on the dashboard.
const newProjectWindowDays = 15

type DashboardMetrics struct {
	TotalActiveProjectsCount int                `json:"total_active_projects_count"`
	CompletedThisYearCount   int                `json:"completed_this_year_count"`
	NewProjectsCount         int                `json:"new_projects_count"`
	TotalRemaining           float64            `json:"total_remaining"`
	MonthlyTotalForecast     map[string]float64 `json:"monthly_total_forecast"`
	MonthlyActualInvoiced    map[string]float64 `json:"monthly_actual_invoiced"`
	FilterApplied            string             `json:"filter_applied"`
}

// DashboardForecastRow is the scan target for the forecast join feeding the
// monthly series.
type DashboardForecastRow struct {
	ForecastInputType   ForecastInputType
	ForecastInputValue  float64
	ForecastDate        string
	IsDeduction         bool
	IsForecastCompleted bool
	ProjectAmount       *float64
}

// BucketMonthlyForecasts accumulates each row's monetary value into the
// month slot of its forecast date, for the given calendar year. The total
// series takes every row; the invoiced series only rows flagged completed.
// The money formula is the toggle-path formula; the two must never diverge.
func BucketMonthlyForecasts(rows []DashboardForecastRow, year int) (total [12]float64, invoiced [12]float64) {
	for _, row := range rows {
		date, ok := utils.ParseFlexibleDate(row.ForecastDate)
		if !ok || date.Year() != year {
			continue
		}
		month := int(date.Month()) - 1
		value := MonetaryValue(row.ForecastInputType, row.ForecastInputValue, row.IsDeduction, row.ProjectAmount)
		total[month] += value
		if row.IsForecastCompleted {
			invoiced[month] += value
		}
	}
	return total, invoiced
}

// GetDashboardMetrics assembles the summary counts and the two monthly
// series, optionally filtered by business segment ("all" means no filter).
func GetDashboardMetrics(ctx context.Context, businessSegment string) (*DashboardMetrics, error) {
	db := config.GetDB()

	segment := strings.TrimSpace(businessSegment)
	if strings.EqualFold(segment, "all") {
		segment = ""
	}

	projectQuery := db.WithContext(ctx).Model(&Project{})
	if segment != "" {
		projectQuery = projectQuery.Where("bs = ?", segment)
	}
	var projects []*Project
	if err := projectQuery.Find(&projects).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := truncateToDay(now)
	year := now.Year()

	metrics := DashboardMetrics{
		MonthlyTotalForecast:  map[string]float64{},
		MonthlyActualInvoiced: map[string]float64{},
		FilterApplied:         businessSegment,
	}
	if metrics.FilterApplied == "" {
		metrics.FilterApplied = "all"
	}

	for _, p := range projects {
		completedDate, hasCompletedDate := parseProjectDate(p.DateCompleted)
		active := !hasCompletedDate && p.Status < 100

		if active {
			metrics.TotalActiveProjectsCount++
			if p.RemainingAmount != nil {
				metrics.TotalRemaining += *p.RemainingAmount
			}
		} else if hasCompletedDate && completedDate.Year() == year {
			metrics.CompletedThisYearCount++
		}

		if countsAsNew(p.PoDate, today) {
			metrics.NewProjectsCount++
		}
	}

	forecastQuery := db.WithContext(ctx).
		Model(&ForecastItem{}).
		Select("forecast_items.forecast_input_type, forecast_items.forecast_input_value, forecast_items.forecast_date, forecast_items.is_deduction, forecast_items.is_forecast_completed, projects.amount AS project_amount").
		Joins("JOIN projects ON projects.id = forecast_items.project_id")
	if segment != "" {
		forecastQuery = forecastQuery.Where("projects.bs = ?", segment)
	}
	var rows []DashboardForecastRow
	if err := forecastQuery.Scan(&rows).Error; err != nil {
		return nil, err
	}

	total, invoiced := BucketMonthlyForecasts(rows, year)
	for month := 0; month < 12; month++ {
		key := fmt.Sprint(month + 1)
		metrics.MonthlyTotalForecast[key] = total[month]
		metrics.MonthlyActualInvoiced[key] = invoiced[month]
	}

	return &metrics, nil
}

// countsAsNew reports whether a PO date falls inside the trailing window
// that ends today. Future-dated POs do not count as new.
func countsAsNew(poDate *string, today time.Time) bool {
	d, ok := parseProjectDate(poDate)
	if !ok {
		return false
	}
	cutoff := today.AddDate(0, 0, -newProjectWindowDays)
	return !d.Before(cutoff) && !d.After(today)
}

func parseProjectDate(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	return utils.ParseFlexibleDate(*raw)
}
