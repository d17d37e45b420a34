package utils

import (
	"context"

	"github.com/mmdatafocus/projects_backend/config"
)

// FetchSingleModel fetches a model of type T by id with optional preloads.
func FetchSingleModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {
	db := config.GetDB()
	var model T
	query := db.WithContext(ctx)
	for _, association := range associations {
		query = query.Preload(association)
	}
	if err := query.First(&model, id).Error; err != nil {
		return nil, ErrorRecordNotFound
	}
	return &model, nil
}

// ResourceCountWhere counts rows of T matching the given condition.
func ResourceCountWhere[T any](ctx context.Context, query string, args ...any) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where(query, args...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ResourceCount counts all rows of T.
func ResourceCount[T any](ctx context.Context) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	if err := db.WithContext(ctx).Model(&model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
