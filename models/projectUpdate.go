package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
)

type ProjectUpdate struct {
	ID                  int        `gorm:"primary_key" json:"id"`
	ProjectId           int        `gorm:"index;not null" json:"project_id"`
	UpdateText          string     `gorm:"type:text;not null" json:"update_text" binding:"required"`
	IsCompleted         bool       `gorm:"not null;default:false" json:"is_completed"`
	Timestamp           time.Time  `gorm:"autoCreateTime" json:"timestamp"`
	CompletionTimestamp *time.Time `json:"completion_timestamp"`
	DueDate             *string    `gorm:"size:20" json:"due_date"`
}

type NewProjectUpdate struct {
	UpdateText string `json:"update_text" binding:"required"`
	DueDate    string `json:"due_date"`
}

// capReached reports whether a collection holding count rows may not take
// another one under the given limit. Shared by the per-project update cap
// and the global forecast cap.
func capReached(count int64, limit int) bool {
	return count >= int64(limit)
}

func AddProjectUpdate(ctx context.Context, projectId int, input *NewProjectUpdate) (*ProjectUpdate, error) {
	db := config.GetDB()

	if strings.TrimSpace(input.UpdateText) == "" {
		return nil, utils.InvalidInputf("update_text cannot be empty")
	}
	if _, err := utils.FetchSingleModel[Project](ctx, projectId); err != nil {
		return nil, err
	}

	limits := config.GetLimits()
	count, err := utils.ResourceCountWhere[ProjectUpdate](ctx, "project_id = ?", projectId)
	if err != nil {
		return nil, err
	}
	if capReached(count, limits.MaxUpdatesPerProject) {
		return nil, utils.ErrorCapacityExceeded
	}

	update := ProjectUpdate{
		ProjectId:  projectId,
		UpdateText: strings.TrimSpace(input.UpdateText),
		DueDate:    normalizeOptionalDate(input.DueDate),
	}
	if err := db.WithContext(ctx).Create(&update).Error; err != nil {
		return nil, err
	}
	return &update, nil
}

// GetProjectUpdates returns a project's updates newest first, ties broken by
// id descending.
func GetProjectUpdates(ctx context.Context, projectId int) ([]*ProjectUpdate, error) {
	db := config.GetDB()

	if _, err := utils.FetchSingleModel[Project](ctx, projectId); err != nil {
		return nil, err
	}

	var updates []*ProjectUpdate
	if err := db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("timestamp DESC, id DESC").
		Find(&updates).Error; err != nil {
		return nil, err
	}
	return updates, nil
}

func DeleteProjectUpdate(ctx context.Context, id int) (*ProjectUpdate, error) {
	db := config.GetDB()

	update, err := utils.FetchSingleModel[ProjectUpdate](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(update).Error; err != nil {
		return nil, err
	}
	return update, nil
}

// ToggleUpdateCompletion flips the completed flag, stamping the completion
// time on completion and clearing it when un-completed.
func ToggleUpdateCompletion(ctx context.Context, id int) (*ProjectUpdate, error) {
	db := config.GetDB()

	update, err := utils.FetchSingleModel[ProjectUpdate](ctx, id)
	if err != nil {
		return nil, err
	}

	newCompleted := !update.IsCompleted
	var completionTimestamp *time.Time
	if newCompleted {
		now := time.Now().UTC()
		completionTimestamp = &now
	}
	if err := db.WithContext(ctx).Model(update).Updates(map[string]any{
		"is_completed":         newCompleted,
		"completion_timestamp": completionTimestamp,
	}).Error; err != nil {
		return nil, err
	}
	update.IsCompleted = newCompleted
	update.CompletionTimestamp = completionTimestamp
	return update, nil
}

// UpdateLogEntry is one row of the office-wide progress log.
type UpdateLogEntry struct {
	ID                  int        `json:"id"`
	ProjectId           int        `json:"project_id"`
	ProjectNo           *string    `json:"project_no"`
	ProjectName         string     `json:"project_name"`
	UpdateText          string     `json:"update_text"`
	IsCompleted         bool       `json:"is_completed"`
	Timestamp           time.Time  `json:"timestamp"`
	CompletionTimestamp *time.Time `json:"completion_timestamp"`
	DueDate             *string    `json:"due_date"`
}

// GetUpdatesLog returns every update across all projects, newest first.
func GetUpdatesLog(ctx context.Context) ([]*UpdateLogEntry, error) {
	db := config.GetDB()

	var entries []*UpdateLogEntry
	if err := db.WithContext(ctx).
		Model(&ProjectUpdate{}).
		Select("project_updates.id, project_updates.project_id, projects.project_no, projects.project_name, project_updates.update_text, project_updates.is_completed, project_updates.timestamp, project_updates.completion_timestamp, project_updates.due_date").
		Joins("JOIN projects ON projects.id = project_updates.project_id").
		Order("project_updates.timestamp DESC, project_updates.id DESC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
