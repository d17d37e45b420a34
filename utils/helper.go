package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/projects_backend/config"
)

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

// safely dereference pointer of type T, nil pointer return zero value or optional default
func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}

// ProjectLock obtains a best-effort redis lock scoped to one project.
// Returns a release func; when the lock cannot be obtained the caller
// proceeds anyway (the DB transaction is the source of correctness) and
// the condition is logged.
func ProjectLock(ctx context.Context, projectId int, moduleName string, functionName string) func() {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", projectId, errors.New("redis lock is nil"))
		return func() {}
	}
	lockKey := fmt.Sprintf("lock:project:%d", projectId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for project", projectId, err)
		return func() {}
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for project", projectId, err)
		return func() {}
	}
	return func() {
		_ = lock.Release(ctx)
	}
}
