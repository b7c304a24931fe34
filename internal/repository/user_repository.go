package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"taskapi/internal/model"
	"taskapi/internal/query"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Find(ctx context.Context, spec query.Spec) ([]model.User, error) {
	db := applyFilter(r.db.WithContext(ctx).Model(&model.User{}), spec.Filter)
	db = applySort(db, spec.Sort)
	db = applyProjection(db, spec.Projection)
	db = applyPage(db, spec.Skip, spec.Limit)

	users := []model.User{}
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context, f query.Filter) (int64, error) {
	var n int64
	err := applyFilter(r.db.WithContext(ctx).Model(&model.User{}), f).Count(&n).Error
	return n, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string, proj query.Projection) (*model.User, error) {
	var user model.User
	err := applyProjection(r.db.WithContext(ctx), proj).Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.PendingTasks == nil {
		user.PendingTasks = model.TaskIDSet(nil)
	}
	return translateWriteError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) Replace(ctx context.Context, user *model.User) error {
	if user.PendingTasks == nil {
		user.PendingTasks = model.TaskIDSet(nil)
	}
	result := r.db.WithContext(ctx).Model(user).Select("*").Updates(user)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddPendingTask appends taskID unless the user already lists it. A missing
// user is not an error.
func (r *UserRepository) AddPendingTask(ctx context.Context, userID, taskID string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND NOT (? = ANY(pending_tasks))", userID, taskID).
		Update("pending_tasks", gorm.Expr("array_append(pending_tasks, ?)", taskID)).
		Error
}

// RemovePendingTask drops every occurrence of taskID from the user's list.
func (r *UserRepository) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("pending_tasks", gorm.Expr("array_remove(pending_tasks, ?)", taskID)).
		Error
}

func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
