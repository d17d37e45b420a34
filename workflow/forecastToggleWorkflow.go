package workflow

import (
	"context"
	"math"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/models"
	"github.com/mmdatafocus/projects_backend/utils"
	"gorm.io/gorm"
)

const epsilon = 1e-9

// ToggleResult carries the re-read forecast entry and whether the owning
// project's status moved as a side effect.
type ToggleResult struct {
	Entry          *models.ForecastEntry
	ProjectUpdated bool
}

// ToggleForecastCompletion flips a forecast item's completed flag and, for
// non-deduction items with a non-negligible percentage equivalent,
// adds/subtracts that equivalent from the owning project's status and
// recomputes the remaining balance. Flag flip and project update commit or
// roll back together; no partial state is ever visible.
//
// A best-effort redis lock narrows the window for concurrent toggles on the
// same project; when the lock is unavailable the transaction still runs
// (last committed write wins, acceptable at single-office scale).
func ToggleForecastCompletion(ctx context.Context, itemId int) (*ToggleResult, error) {
	db := config.GetDB()

	var probe models.ForecastItem
	if err := db.WithContext(ctx).First(&probe, itemId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	release := utils.ProjectLock(ctx, probe.ProjectId, "workflow", "ToggleForecastCompletion")
	defer release()

	result := ToggleResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.ForecastItem
		if err := tx.First(&item, itemId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		var project models.Project
		if err := tx.First(&project, item.ProjectId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		// The flip always happens, whatever the item's magnitude.
		completing := !item.IsForecastCompleted
		if err := tx.Model(&item).Update("is_forecast_completed", completing).Error; err != nil {
			return err
		}

		percentEquiv := models.PercentValue(item.ForecastInputType, item.ForecastInputValue, item.IsDeduction, project.Amount)
		if !item.IsDeduction && math.Abs(percentEquiv) > epsilon {
			newStatus, changed := models.ApplyStatusDelta(project.Status, percentEquiv, completing)
			if changed {
				remaining := models.CalculateRemaining(project.Amount, &newStatus)
				if err := tx.Model(&project).Updates(map[string]any{
					"status":           newStatus,
					"remaining_amount": remaining,
				}).Error; err != nil {
					return err
				}
				result.ProjectUpdated = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry, err := models.GetForecastEntry(ctx, itemId)
	if err != nil {
		return nil, err
	}
	result.Entry = entry
	return &result, nil
}
