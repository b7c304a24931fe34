package service_test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/repository"
)

// memStore is an in-memory stand-in for both collections. It understands the
// filters the services build themselves: $eq / $in on scalar fields and $and.
type memStore struct {
	mu    sync.Mutex
	tasks map[string]model.Task
	users map[string]model.User
}

func newMemStore() *memStore {
	return &memStore{tasks: map[string]model.Task{}, users: map[string]model.User{}}
}

type memTasks struct{ *memStore }
type memUsers struct{ *memStore }

func (m *memStore) taskStore() memTasks { return memTasks{m} }
func (m *memStore) userStore() memUsers { return memUsers{m} }

func (m *memStore) task(id string) (model.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

func (m *memStore) user(id string) (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *memStore) putTask(t model.Task) { m.tasks[t.ID] = t }
func (m *memStore) putUser(u model.User) { m.users[u.ID] = u }

func taskValue(t model.Task, field string) any {
	switch field {
	case "_id":
		return t.ID
	case "name":
		return t.Name
	case "completed":
		return t.Completed
	case "assignedUser":
		return t.AssignedUser
	case "assignedUserName":
		return t.AssignedUserName
	}
	panic("memStore: unsupported field " + field)
}

func matches(e query.Expr, get func(string) any) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *query.Comparison:
		v := get(n.Field.Name)
		switch n.Op {
		case query.OpEq:
			return v == n.Value
		case query.OpIn:
			return slices.Contains(n.Values, v)
		}
	case *query.Logical:
		if n.Op == query.OpAnd {
			for _, sub := range n.Exprs {
				if !matches(sub, get) {
					return false
				}
			}
			return true
		}
	}
	panic(fmt.Sprintf("memStore: unsupported expression %#v", e))
}

func (s memTasks) matching(f query.Filter) []model.Task {
	var out []model.Task
	for _, t := range s.tasks {
		t := t
		if matches(f.Root, func(field string) any { return taskValue(t, field) }) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s memTasks) Find(_ context.Context, spec query.Spec) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matching(spec.Filter), nil
}

func (s memTasks) Count(_ context.Context, f query.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(f))), nil
}

func (s memTasks) GetByID(_ context.Context, id string, _ query.Projection) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return &t, nil
}

func (s memTasks) Create(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putTask(*t)
	return nil
}

func (s memTasks) Replace(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	s.putTask(*t)
	return nil
}

func (s memTasks) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s memTasks) UpdateMany(_ context.Context, f query.Filter, set map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hits := s.matching(f)
	for _, t := range hits {
		for field, v := range set {
			switch field {
			case "assignedUser":
				t.AssignedUser = v.(string)
			case "assignedUserName":
				t.AssignedUserName = v.(string)
			case "completed":
				t.Completed = v.(bool)
			default:
				panic("memStore: unsupported update field " + field)
			}
		}
		s.putTask(t)
	}
	return int64(len(hits)), nil
}

func (s memUsers) Find(_ context.Context, _ query.Spec) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s memUsers) Count(_ context.Context, _ query.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s memUsers) GetByID(_ context.Context, id string, _ query.Projection) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.PendingTasks = slices.Clone(u.PendingTasks)
	return &u, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.putUser(*u)
	return nil
}

func (s memUsers) Replace(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	s.putUser(*u)
	return nil
}

func (s memUsers) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s memUsers) AddPendingTask(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || slices.Contains(u.PendingTasks, taskID) {
		return nil
	}
	u.PendingTasks = append(slices.Clone(u.PendingTasks), taskID)
	s.putUser(u)
	return nil
}

func (s memUsers) RemovePendingTask(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	u.PendingTasks = slices.DeleteFunc(slices.Clone(u.PendingTasks), func(id string) bool { return id == taskID })
	s.putUser(u)
	return nil
}
