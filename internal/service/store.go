package service

import (
	"context"

	"taskapi/internal/model"
	"taskapi/internal/query"
)

// TaskStore is the task collection of the document store. There are no
// multi-document transactions; every call commits on its own.
//
// GetByID, Replace and Delete return repository.ErrTaskNotFound for unknown ids.
type TaskStore interface {
	Find(ctx context.Context, spec query.Spec) ([]model.Task, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
	GetByID(ctx context.Context, id string, proj query.Projection) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Replace(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	// UpdateMany sets the given fields (by public field name) on every matching task.
	UpdateMany(ctx context.Context, filter query.Filter, set map[string]any) (int64, error)
}

// UserStore is the user collection of the document store.
//
// GetByID, Replace and Delete return repository.ErrUserNotFound for unknown ids;
// Create and Replace return repository.ErrDuplicateEmail on a unique-email clash.
type UserStore interface {
	Find(ctx context.Context, spec query.Spec) ([]model.User, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
	GetByID(ctx context.Context, id string, proj query.Projection) (*model.User, error)
	// FindByEmail returns nil, nil when no user has the address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Replace(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	// AddPendingTask adds taskID to the user's pendingTasks unless already present.
	AddPendingTask(ctx context.Context, userID, taskID string) error
	RemovePendingTask(ctx context.Context, userID, taskID string) error
}

// Page is the result of a list call: either documents or, for count requests, a total.
type Page[T any] struct {
	Items     []T
	Count     int64
	CountOnly bool
}
