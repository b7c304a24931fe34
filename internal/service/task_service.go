package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskapi/internal/logger"
	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/repository"
)

// TaskInput is the full replacement body of a task. Deadline and Completed keep
// their raw JSON shape because several encodings are accepted.
type TaskInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Deadline     any    `json:"deadline" validate:"required"`
	Completed    any    `json:"completed"`
	AssignedUser string `json:"assignedUser"`
}

type TaskService struct {
	tasks    TaskStore
	users    UserStore
	validate *validator.Validate
}

func NewTaskService(tasks TaskStore, users UserStore) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		validate: validator.New(),
	}
}

func (s *TaskService) List(ctx context.Context, spec query.Spec) (Page[model.Task], error) {
	if spec.Count {
		n, err := s.tasks.Count(ctx, spec.Filter)
		if err != nil {
			return Page[model.Task]{}, fmt.Errorf("count tasks: %w", err)
		}
		return Page[model.Task]{Count: n, CountOnly: true}, nil
	}

	tasks, err := s.tasks.Find(ctx, spec)
	if err != nil {
		return Page[model.Task]{}, fmt.Errorf("find tasks: %w", err)
	}
	return Page[model.Task]{Items: tasks}, nil
}

func (s *TaskService) Get(ctx context.Context, id string, proj query.Projection) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, proj)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, errTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*model.Task, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid("Name and deadline are required")
	}
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Deadline:    deadline,
		Completed:   parseCompleted(in.Completed),
		DateCreated: time.Now().UTC(),
	}
	if err := s.resolveAssignee(ctx, task, in.AssignedUser); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if task.Pending() {
		if err := s.addPending(ctx, task.AssignedUser, task.ID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// Update replaces every field of a task and then repairs pendingTasks on the
// previous and the new assignee.
func (s *TaskService) Update(ctx context.Context, id string, in TaskInput) (*model.Task, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid("Name and deadline are required")
	}

	prev, err := s.Get(ctx, id, query.Projection{})
	if err != nil {
		return nil, err
	}

	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	next := *prev
	next.Name = in.Name
	next.Description = in.Description
	next.Deadline = deadline
	next.Completed = parseCompleted(in.Completed)
	if err := s.resolveAssignee(ctx, &next, in.AssignedUser); err != nil {
		return nil, err
	}

	if err := s.tasks.Replace(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, errTaskNotFound
		}
		return nil, fmt.Errorf("replace task %s: %w", id, err)
	}

	reassigned := prev.AssignedUser != next.AssignedUser
	justCompleted := !prev.Completed && next.Completed
	if prev.IsAssigned() && (reassigned || justCompleted) {
		if err := s.removePending(ctx, prev.AssignedUser, next.ID); err != nil {
			return nil, err
		}
	}
	if next.Pending() {
		if err := s.addPending(ctx, next.AssignedUser, next.ID); err != nil {
			return nil, err
		}
	}
	return &next, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	task, err := s.Get(ctx, id, query.Projection{})
	if err != nil {
		return err
	}

	if task.IsAssigned() {
		if err := s.removePending(ctx, task.AssignedUser, task.ID); err != nil {
			return err
		}
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return errTaskNotFound
		}
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// resolveAssignee fills both assignment fields of task; an unknown user id is a
// client error.
func (s *TaskService) resolveAssignee(ctx context.Context, task *model.Task, userID string) error {
	if userID == "" {
		task.Unassign()
		return nil
	}
	user, err := s.users.GetByID(ctx, userID, query.Projection{})
	if errors.Is(err, repository.ErrUserNotFound) {
		return invalid("Assigned user not found")
	}
	if err != nil {
		return fmt.Errorf("get user %s: %w", userID, err)
	}
	task.AssignedUser = user.ID
	task.AssignedUserName = user.Name
	return nil
}

func (s *TaskService) addPending(ctx context.Context, userID, taskID string) error {
	if err := s.users.AddPendingTask(ctx, userID, taskID); err != nil {
		return fmt.Errorf("add pending task %s to user %s: %w", taskID, userID, err)
	}
	logger.DebugContext(ctx, "pending task added", "user_id", userID, "task_id", taskID)
	return nil
}

func (s *TaskService) removePending(ctx context.Context, userID, taskID string) error {
	if err := s.users.RemovePendingTask(ctx, userID, taskID); err != nil {
		return fmt.Errorf("remove pending task %s from user %s: %w", taskID, userID, err)
	}
	logger.DebugContext(ctx, "pending task removed", "user_id", userID, "task_id", taskID)
	return nil
}

func parseDeadline(raw any) (time.Time, error) {
	t, err := query.ParseTime(raw)
	if err != nil {
		return time.Time{}, invalid("Invalid deadline")
	}
	return t, nil
}

// parseCompleted accepts a JSON boolean or the text "true" in any case.
func parseCompleted(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}
