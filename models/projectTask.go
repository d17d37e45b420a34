package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
	"gorm.io/gorm"
)

// maxTaskDepth bounds the ancestor walk when validating parent links.
const maxTaskDepth = 100

type ProjectTask struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ProjectId     int       `gorm:"index;not null" json:"project_id"`
	TaskName      string    `gorm:"size:255;not null" json:"task_name" binding:"required"`
	PlannedStart  *string   `gorm:"size:20" json:"planned_start"`
	PlannedEnd    *string   `gorm:"size:20" json:"planned_end"`
	ActualStart   *string   `gorm:"size:20" json:"actual_start"`
	ActualEnd     *string   `gorm:"size:20" json:"actual_end"`
	PlannedWeight float64   `gorm:"not null;default:0" json:"planned_weight"`
	AssignedTo    string    `gorm:"size:100" json:"assigned_to"`
	ParentTaskId  *int      `gorm:"index" json:"parent_task_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewProjectTask struct {
	TaskName      string   `json:"task_name" binding:"required"`
	PlannedStart  string   `json:"planned_start"`
	PlannedEnd    string   `json:"planned_end"`
	ActualStart   string   `json:"actual_start"`
	ActualEnd     string   `json:"actual_end"`
	PlannedWeight *float64 `json:"planned_weight"`
	AssignedTo    string   `json:"assigned_to"`
	ParentTaskId  *int     `json:"parent_task_id"`
}

// strictTaskDate enforces the YYYY-MM-DD shape; task dates deliberately do
// not go through flexible parsing.
func strictTaskDate(field string, raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if !utils.IsStrictIsoDate(s) {
		return nil, utils.InvalidInputf("%s must be YYYY-MM-DD", field)
	}
	return &s, nil
}

func (input *NewProjectTask) toTask(projectId int) (*ProjectTask, error) {
	if strings.TrimSpace(input.TaskName) == "" {
		return nil, utils.InvalidInputf("task_name cannot be empty")
	}
	weight := 0.0
	if input.PlannedWeight != nil {
		if *input.PlannedWeight < 0 {
			return nil, utils.InvalidInputf("planned_weight must be non-negative")
		}
		weight = *input.PlannedWeight
	}

	task := ProjectTask{
		ProjectId:     projectId,
		TaskName:      strings.TrimSpace(input.TaskName),
		PlannedWeight: weight,
		AssignedTo:    input.AssignedTo,
		ParentTaskId:  input.ParentTaskId,
	}
	var err error
	if task.PlannedStart, err = strictTaskDate("planned_start", input.PlannedStart); err != nil {
		return nil, err
	}
	if task.PlannedEnd, err = strictTaskDate("planned_end", input.PlannedEnd); err != nil {
		return nil, err
	}
	if task.ActualStart, err = strictTaskDate("actual_start", input.ActualStart); err != nil {
		return nil, err
	}
	if task.ActualEnd, err = strictTaskDate("actual_end", input.ActualEnd); err != nil {
		return nil, err
	}
	return &task, nil
}

// validateParentTask checks the parent exists in the same project, is not
// the task itself, and would not close a cycle. The original stopped at the
// self-parent check; the ancestor walk closes the A->B->A gap.
func validateParentTask(ctx context.Context, db *gorm.DB, taskId int, projectId int, parentId int) error {
	if parentId == taskId {
		return utils.InvalidInputf("a task cannot be its own parent")
	}

	var parent ProjectTask
	if err := db.WithContext(ctx).First(&parent, parentId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	if parent.ProjectId != projectId {
		return utils.InvalidInputf("parent task must belong to the same project")
	}

	// Walk ancestors; if the task shows up the link would form a cycle.
	current := &parent
	for depth := 0; depth < maxTaskDepth; depth++ {
		if current.ParentTaskId == nil {
			return nil
		}
		if *current.ParentTaskId == taskId {
			return utils.InvalidInputf("parent link would create a cycle")
		}
		var next ProjectTask
		if err := db.WithContext(ctx).First(&next, *current.ParentTaskId).Error; err != nil {
			return nil
		}
		current = &next
	}
	return utils.InvalidInputf("task hierarchy too deep")
}

func AddProjectTask(ctx context.Context, projectId int, input *NewProjectTask) (*ProjectTask, error) {
	db := config.GetDB()

	if _, err := utils.FetchSingleModel[Project](ctx, projectId); err != nil {
		return nil, err
	}
	task, err := input.toTask(projectId)
	if err != nil {
		return nil, err
	}
	if task.ParentTaskId != nil {
		if err := validateParentTask(ctx, db, 0, projectId, *task.ParentTaskId); err != nil {
			return nil, err
		}
	}

	if err := db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func GetProjectTasks(ctx context.Context, projectId int) ([]*ProjectTask, error) {
	db := config.GetDB()

	if _, err := utils.FetchSingleModel[Project](ctx, projectId); err != nil {
		return nil, err
	}

	var tasks []*ProjectTask
	if err := db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("planned_start ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func UpdateProjectTask(ctx context.Context, id int, input *NewProjectTask) (*ProjectTask, error) {
	db := config.GetDB()

	existing, err := utils.FetchSingleModel[ProjectTask](ctx, id)
	if err != nil {
		return nil, err
	}
	task, err := input.toTask(existing.ProjectId)
	if err != nil {
		return nil, err
	}
	if task.ParentTaskId != nil {
		if err := validateParentTask(ctx, db, id, existing.ProjectId, *task.ParentTaskId); err != nil {
			return nil, err
		}
	}

	if err := db.WithContext(ctx).Model(existing).Updates(map[string]any{
		"task_name":      task.TaskName,
		"planned_start":  task.PlannedStart,
		"planned_end":    task.PlannedEnd,
		"actual_start":   task.ActualStart,
		"actual_end":     task.ActualEnd,
		"planned_weight": task.PlannedWeight,
		"assigned_to":    task.AssignedTo,
		"parent_task_id": task.ParentTaskId,
	}).Error; err != nil {
		return nil, err
	}
	return utils.FetchSingleModel[ProjectTask](ctx, id)
}

// DeleteProjectTask removes one task; children are detached (parent set to
// NULL) rather than cascaded.
func DeleteProjectTask(ctx context.Context, id int) (*ProjectTask, error) {
	db := config.GetDB()

	task, err := utils.FetchSingleModel[ProjectTask](ctx, id)
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ProjectTask{}).
			Where("parent_task_id = ?", id).
			Update("parent_task_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
