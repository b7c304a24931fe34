package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskapi/internal/logger"
	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/repository"
)

type UserInput struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required"`
	PendingTasks []string `json:"pendingTasks"`
}

type UserService struct {
	users    UserStore
	tasks    TaskStore
	validate *validator.Validate
}

func NewUserService(users UserStore, tasks TaskStore) *UserService {
	return &UserService{
		users:    users,
		tasks:    tasks,
		validate: validator.New(),
	}
}

func (s *UserService) List(ctx context.Context, spec query.Spec) (Page[model.User], error) {
	if spec.Count {
		n, err := s.users.Count(ctx, spec.Filter)
		if err != nil {
			return Page[model.User]{}, fmt.Errorf("count users: %w", err)
		}
		return Page[model.User]{Count: n, CountOnly: true}, nil
	}

	users, err := s.users.Find(ctx, spec)
	if err != nil {
		return Page[model.User]{}, fmt.Errorf("find users: %w", err)
	}
	return Page[model.User]{Items: users}, nil
}

func (s *UserService) Get(ctx context.Context, id string, proj query.Projection) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id, proj)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// Create stores a user and points every listed task at it. The listed ids are
// not checked against the task collection.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid("Name and email are required")
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, invalid("Email already exists")
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PendingTasks: model.TaskIDSet(in.PendingTasks),
		DateCreated:  time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, invalid("Email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.assignTasks(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update replaces a user. The tasks previously assigned to it are read from the
// task collection, not from the stored pendingTasks, and the difference with the
// new list is unassigned.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid("Name and email are required")
	}

	user, err := s.Get(ctx, id, query.Projection{})
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if owner != nil && owner.ID != user.ID {
		return nil, invalid("Email already exists")
	}

	pending := model.TaskIDSet(in.PendingTasks)
	if len(pending) > 0 {
		found, err := s.tasks.Count(ctx, query.In(model.TaskField(query.IDField), toAny(pending)...))
		if err != nil {
			return nil, fmt.Errorf("count pending tasks: %w", err)
		}
		if found != int64(len(pending)) {
			return nil, invalid("One or more pendingTasks IDs are invalid")
		}
	}

	prevIDs, err := s.assignedTaskIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	next := *user
	next.Name = in.Name
	next.Email = in.Email
	next.PendingTasks = pending
	if err := s.users.Replace(ctx, &next); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, errUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, invalid("Email already exists")
		}
		return nil, fmt.Errorf("replace user %s: %w", id, err)
	}

	if dropped := difference(prevIDs, pending); len(dropped) > 0 {
		filter := query.And(
			query.In(model.TaskField(query.IDField), toAny(dropped)...),
			query.Eq(model.TaskField("assignedUser"), next.ID),
		)
		n, err := s.tasks.UpdateMany(ctx, filter, unassignedFields())
		if err != nil {
			return nil, fmt.Errorf("unassign tasks from user %s: %w", next.ID, err)
		}
		logger.DebugContext(ctx, "tasks unassigned", "user_id", next.ID, "count", n)
	}

	if err := s.assignTasks(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete unassigns every task that points at the user, then removes it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id, query.Projection{})
	if err != nil {
		return err
	}

	n, err := s.tasks.UpdateMany(ctx, query.Eq(model.TaskField("assignedUser"), user.ID), unassignedFields())
	if err != nil {
		return fmt.Errorf("unassign tasks from user %s: %w", user.ID, err)
	}
	logger.DebugContext(ctx, "tasks unassigned", "user_id", user.ID, "count", n)

	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errUserNotFound
		}
		return fmt.Errorf("delete user %s: %w", user.ID, err)
	}
	return nil
}

// assignTasks points every task in user.PendingTasks at the user and reopens it.
// A task assigned elsewhere is taken over silently.
func (s *UserService) assignTasks(ctx context.Context, user *model.User) error {
	if len(user.PendingTasks) == 0 {
		return nil
	}
	set := map[string]any{
		"assignedUser":     user.ID,
		"assignedUserName": user.Name,
		"completed":        false,
	}
	n, err := s.tasks.UpdateMany(ctx, query.In(model.TaskField(query.IDField), toAny(user.PendingTasks)...), set)
	if err != nil {
		return fmt.Errorf("assign tasks to user %s: %w", user.ID, err)
	}
	logger.DebugContext(ctx, "tasks assigned", "user_id", user.ID, "count", n)
	return nil
}

func (s *UserService) assignedTaskIDs(ctx context.Context, userID string) ([]string, error) {
	tasks, err := s.tasks.Find(ctx, query.Spec{
		Filter:     query.Eq(model.TaskField("assignedUser"), userID),
		Projection: query.Include(model.TaskSchema, query.IDField),
	})
	if err != nil {
		return nil, fmt.Errorf("find tasks of user %s: %w", userID, err)
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func unassignedFields() map[string]any {
	return map[string]any{
		"assignedUser":     "",
		"assignedUserName": model.UnassignedName,
	}
}

// difference returns the ids of a that are not in b.
func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, id := range b {
		in[id] = true
	}
	var out []string
	for _, id := range a {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
