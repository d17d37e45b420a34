package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
	"gorm.io/gorm"
)

// ProjectView is the list-response shape: a project plus its updates
// (newest first), the latest update text, a forecast-existence flag and the
// running-week count.
type ProjectView struct {
	Project
	LatestUpdate *string `json:"latest_update"`
	HasForecasts bool    `json:"has_forecasts"`
	RunningWeeks *int    `json:"running_weeks"`
}

// activeProjectFilter: no completion date recorded and status below 100.
func activeProjectFilter(db *gorm.DB) *gorm.DB {
	return db.Where("(date_completed IS NULL OR date_completed = '') AND status < 100")
}

func completedProjectFilter(db *gorm.DB) *gorm.DB {
	return db.Where("(date_completed IS NOT NULL AND date_completed <> '') OR status >= 100")
}

// GetActiveProjects returns the active list ordered by remaining balance
// descending, unknown balances last.
func GetActiveProjects(ctx context.Context) ([]*ProjectView, error) {
	db := config.GetDB()

	var projects []*Project
	if err := activeProjectFilter(db.WithContext(ctx)).
		Order("remaining_amount IS NULL, remaining_amount DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return buildProjectViews(ctx, projects)
}

// GetCompletedProjects returns completed projects, most recently completed
// first.
func GetCompletedProjects(ctx context.Context) ([]*ProjectView, error) {
	db := config.GetDB()

	var projects []*Project
	if err := completedProjectFilter(db.WithContext(ctx)).
		Order("date_completed DESC, id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return buildProjectViews(ctx, projects)
}

// GetProjectDetails returns one project with its updates, forecast entries
// and tasks attached.
func GetProjectDetails(ctx context.Context, id int) (*ProjectView, error) {
	project, err := utils.FetchSingleModel[Project](ctx, id, "Tasks", "ForecastItems")
	if err != nil {
		return nil, err
	}
	views, err := buildProjectViews(ctx, []*Project{project})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// buildProjectViews attaches updates, latest-update text, forecast flags and
// running weeks to a fetched project set in two queries.
func buildProjectViews(ctx context.Context, projects []*Project) ([]*ProjectView, error) {
	db := config.GetDB()

	views := make([]*ProjectView, 0, len(projects))
	if len(projects) == 0 {
		return views, nil
	}

	ids := make([]int, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	var updates []ProjectUpdate
	if err := db.WithContext(ctx).
		Where("project_id IN ?", ids).
		Order("timestamp DESC, id DESC").
		Find(&updates).Error; err != nil {
		return nil, err
	}
	updatesByProject := make(map[int][]ProjectUpdate, len(projects))
	for _, u := range updates {
		updatesByProject[u.ProjectId] = append(updatesByProject[u.ProjectId], u)
	}

	var forecastProjectIds []int
	if err := db.WithContext(ctx).
		Model(&ForecastItem{}).
		Distinct("project_id").
		Where("project_id IN ?", ids).
		Pluck("project_id", &forecastProjectIds).Error; err != nil {
		return nil, err
	}
	hasForecasts := make(map[int]bool, len(forecastProjectIds))
	for _, pid := range forecastProjectIds {
		hasForecasts[pid] = true
	}

	today := time.Now().UTC()
	for _, p := range projects {
		view := &ProjectView{
			Project:      *p,
			HasForecasts: hasForecasts[p.ID],
			RunningWeeks: RunningWeeks(p.PoDate, p.DateCompleted, today),
		}
		view.Updates = updatesByProject[p.ID]
		if len(view.Updates) > 0 {
			view.LatestUpdate = &view.Updates[0].UpdateText
		}
		views = append(views, view)
	}
	return views, nil
}

// RunningWeeks counts elapsed weeks since the PO date. The window closes at
// the completion date when it is set and not in the future, otherwise today.
// Nil without a parseable PO date; 0 when the PO date is past the window end;
// else floor(days/7)+1 so the first partial week counts as week 1.
func RunningWeeks(poDate *string, dateCompleted *string, today time.Time) *int {
	if poDate == nil {
		return nil
	}
	start, ok := utils.ParseFlexibleDate(*poDate)
	if !ok {
		return nil
	}

	end := truncateToDay(today)
	if dateCompleted != nil {
		if completed, ok := utils.ParseFlexibleDate(*dateCompleted); ok && !completed.After(end) {
			end = completed
		}
	}

	if start.After(end) {
		weeks := 0
		return &weeks
	}
	days := int(end.Sub(start).Hours() / 24)
	weeks := days/7 + 1
	return &weeks
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
