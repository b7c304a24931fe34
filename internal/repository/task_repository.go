package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskapi/internal/model"
	"taskapi/internal/query"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Find returns the tasks matching spec, in spec order.
func (r *TaskRepository) Find(ctx context.Context, spec query.Spec) ([]model.Task, error) {
	db := applyFilter(r.db.WithContext(ctx).Model(&model.Task{}), spec.Filter)
	db = applySort(db, spec.Sort)
	db = applyProjection(db, spec.Projection)
	db = applyPage(db, spec.Skip, spec.Limit)

	tasks := []model.Task{}
	if err := db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count returns the number of tasks matching f
func (r *TaskRepository) Count(ctx context.Context, f query.Filter) (int64, error) {
	var n int64
	err := applyFilter(r.db.WithContext(ctx).Model(&model.Task{}), f).Count(&n).Error
	return n, err
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id string, proj query.Projection) (*model.Task, error) {
	var task model.Task
	db := applyProjection(r.db.WithContext(ctx), proj)
	result := db.Take(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Replace overwrites every column of an existing task
func (r *TaskRepository) Replace(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(task).Select("*").Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// UpdateMany sets fields on every task matching f and returns how many changed.
func (r *TaskRepository) UpdateMany(ctx context.Context, f query.Filter, set map[string]any) (int64, error) {
	cols, err := columns(model.TaskSchema, set)
	if err != nil {
		return 0, err
	}
	db := r.db.WithContext(ctx).Model(&model.Task{})
	if f.IsEmpty() {
		// gorm refuses unconditioned bulk updates
		db = db.Where("TRUE")
	} else {
		db = applyFilter(db, f)
	}
	result := db.Updates(cols)
	return result.RowsAffected, result.Error
}
