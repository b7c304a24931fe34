package service_test

import (
	"context"
	"testing"
	"time"

	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupServices() (*memStore, *service.TaskService, *service.UserService) {
	store := newMemStore()
	tasks := service.NewTaskService(store.taskStore(), store.userStore())
	users := service.NewUserService(store.userStore(), store.taskStore())
	return store, tasks, users
}

func createUser(t *testing.T, users *service.UserService, name, email string) *model.User {
	t.Helper()
	u, err := users.Create(context.Background(), service.UserInput{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func TestTaskCreate_AssignedPendingTaskIsMirrored(t *testing.T) {
	store, tasks, users := setupServices()
	ann := createUser(t, users, "Ann", "ann@example.com")

	task, err := tasks.Create(context.Background(), service.TaskInput{
		Name:         "Write report",
		Deadline:     "2030-01-02T03:04:05Z",
		AssignedUser: ann.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, ann.ID, task.AssignedUser)
	assert.Equal(t, "Ann", task.AssignedUserName)
	assert.False(t, task.Completed)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), task.Deadline)

	stored, _ := store.user(ann.ID)
	assert.Equal(t, []string{task.ID}, []string(stored.PendingTasks))
}

func TestTaskCreate_CompletedTaskIsNotPending(t *testing.T) {
	store, tasks, users := setupServices()
	ann := createUser(t, users, "Ann", "ann@example.com")

	_, err := tasks.Create(context.Background(), service.TaskInput{
		Name:         "Done already",
		Deadline:     float64(1700000000000),
		Completed:    "TRUE",
		AssignedUser: ann.ID,
	})

	require.NoError(t, err)
	stored, _ := store.user(ann.ID)
	assert.Empty(t, stored.PendingTasks)
}

func TestTaskCreate_UnassignedUsesSentinels(t *testing.T) {
	_, tasks, _ := setupServices()

	task, err := tasks.Create(context.Background(), service.TaskInput{Name: "Solo", Deadline: "1700000000000"})

	require.NoError(t, err)
	assert.Equal(t, "", task.AssignedUser)
	assert.Equal(t, "unassigned", task.AssignedUserName)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), task.Deadline)
}

func TestTaskCreate_DateTextDeadline(t *testing.T) {
	tests := []struct {
		name     string
		deadline string
		want     time.Time
	}{
		{"date only", "2030-01-01", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"date and time", "2030-01-01 09:15", time.Date(2030, 1, 1, 9, 15, 0, 0, time.UTC)},
		{"written month", "March 7, 2030", time.Date(2030, 3, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, tasks, _ := setupServices()

			task, err := tasks.Create(context.Background(), service.TaskInput{Name: "x", Deadline: tt.deadline})

			require.NoError(t, err)
			stored, ok := store.task(task.ID)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(stored.Deadline), stored.Deadline)
		})
	}
}

func TestTaskUpdate_DateTextDeadline(t *testing.T) {
	store, tasks, _ := setupServices()
	task, err := tasks.Create(context.Background(), service.TaskInput{Name: "a", Deadline: "2030-01-01"})
	require.NoError(t, err)

	_, err = tasks.Update(context.Background(), task.ID, service.TaskInput{Name: "a", Deadline: "2031-06-15"})

	require.NoError(t, err)
	stored, _ := store.task(task.ID)
	assert.True(t, time.Date(2031, 6, 15, 0, 0, 0, 0, time.UTC).Equal(stored.Deadline), stored.Deadline)
}

func TestTaskCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      service.TaskInput
		message string
	}{
		{"missing name", service.TaskInput{Deadline: "2030-01-01"}, "Name and deadline are required"},
		{"missing deadline", service.TaskInput{Name: "x"}, "Name and deadline are required"},
		{"empty deadline", service.TaskInput{Name: "x", Deadline: ""}, "Name and deadline are required"},
		{"garbage deadline", service.TaskInput{Name: "x", Deadline: "someday"}, "Invalid deadline"},
		{"object deadline", service.TaskInput{Name: "x", Deadline: map[string]any{"at": 1}}, "Invalid deadline"},
		{"unknown user", service.TaskInput{Name: "x", Deadline: "2030-01-01", AssignedUser: "nobody"}, "Assigned user not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, tasks, _ := setupServices()

			_, err := tasks.Create(context.Background(), tt.in)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
			assert.Empty(t, store.tasks)
		})
	}
}

func TestTaskUpdate_CompletingRemovesFromPending(t *testing.T) {
	store, tasks, users := setupServices()
	ann := createUser(t, users, "Ann", "ann@example.com")
	task, err := tasks.Create(context.Background(), service.TaskInput{Name: "a", Deadline: "2030-01-01", AssignedUser: ann.ID})
	require.NoError(t, err)

	updated, err := tasks.Update(context.Background(), task.ID, service.TaskInput{
		Name:         "a",
		Deadline:     "2030-01-01",
		Completed:    true,
		AssignedUser: ann.ID,
	})

	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, task.DateCreated, updated.DateCreated)
	stored, _ := store.user(ann.ID)
	assert.NotContains(t, stored.PendingTasks, task.ID)
}

func TestTaskUpdate_ReassignMovesPending(t *testing.T) {
	store, tasks, users := setupServices()
	ann := createUser(t, users, "Ann", "ann@example.com")
	bob := createUser(t, users, "Bob", "bob@example.com")
	task, err := tasks.Create(context.Background(), service.TaskInput{Name: "a", Deadline: "2030-01-01", AssignedUser: ann.ID})
	require.NoError(t, err)

	updated, err := tasks.Update(context.Background(), task.ID, service.TaskInput{Name: "a", Deadline: "2030-01-01", AssignedUser: bob.ID})

	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.AssignedUserName)
	annStored, _ := store.user(ann.ID)
	bobStored, _ := store.user(bob.ID)
	assert.NotContains(t, annStored.PendingTasks, task.ID)
	assert.Equal(t, []string{task.ID}, []string(bobStored.PendingTasks))
}

func TestTaskUpdate_AssignThenUnassignRoundTrip(t *testing.T) {
	store, tasks, users := setupServices()
	ann := createUser(t, users, "Ann", "ann@example.com")
	task, err := tasks.Create(context.Background(), service.TaskInput{Name: "a", Deadline: "2030-01-01"})
	require.NoError(t, err)

	_, err = tasks.Update(context.Background(), task.ID, service.TaskInput{Name: "a", Deadline: "2030-01-01", AssignedUser: ann.ID})
	require.NoError(t, err)
	back, err := tasks.Update(context.Background(), task.ID, service.TaskInput{Name: "a", Deadline: "2030-01-01"})
	require.NoError(t, err)

	assert.Equal(t, task.AssignedUser, back.AssignedUser)
	assert.Equal(t, task.AssignedUserName, back.AssignedUserName)
	stored, _ := store.user(ann.ID)
	assert.Empty(t, stored.PendingTasks)
}

func TestTaskUpdate_NotFound(t *testing.T) {
	_, tasks, _ := setupServices()

	_, err := tasks.Update(context.Background(), "missing", service.TaskInput{Name: "a", Deadline: "2030-01-01"})

	assert.True(t, service.IsNotFound(err))
	assert.EqualError(t, err, "Task not found")
}

func TestTaskUpdate_RequiredFieldsCheckedBeforeLookup(t *testing.T) {
	_, tasks, _ := setupServices()

	_, err := tasks.Update(context.Background(), "missing", service.TaskInput{Name: "a"})

	assert.True(t, service.IsValidation(err))
}

func TestTaskDelete_RemovesFromOwnerPending(t *testing.T) {
	store, tasks, users := setupServices()
	ann := createUser(t, users, "Ann", "ann@example.com")
	keep, err := tasks.Create(context.Background(), service.TaskInput{Name: "keep", Deadline: "2030-01-01", AssignedUser: ann.ID})
	require.NoError(t, err)
	drop, err := tasks.Create(context.Background(), service.TaskInput{Name: "drop", Deadline: "2030-01-01", AssignedUser: ann.ID})
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(context.Background(), drop.ID))

	_, exists := store.task(drop.ID)
	assert.False(t, exists)
	stored, _ := store.user(ann.ID)
	assert.Equal(t, []string{keep.ID}, []string(stored.PendingTasks))
}

func TestTaskDelete_NotFound(t *testing.T) {
	_, tasks, _ := setupServices()

	err := tasks.Delete(context.Background(), "missing")

	assert.True(t, service.IsNotFound(err))
}

// mockTaskStore lets tests fail individual store calls.
type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) Find(ctx context.Context, spec query.Spec) ([]model.Task, error) {
	args := m.Called(ctx, spec)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskStore) Count(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id string, proj query.Projection) (*model.Task, error) {
	args := m.Called(ctx, id, proj)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *mockTaskStore) Create(ctx context.Context, task *model.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskStore) Replace(ctx context.Context, task *model.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTaskStore) UpdateMany(ctx context.Context, f query.Filter, set map[string]any) (int64, error) {
	args := m.Called(ctx, f, set)
	return args.Get(0).(int64), args.Error(1)
}

func TestTaskList_CountOnly(t *testing.T) {
	store := newMemStore()
	tasksStore := new(mockTaskStore)
	svc := service.NewTaskService(tasksStore, store.userStore())
	filter := query.Eq(model.TaskField("assignedUser"), "u1")
	tasksStore.On("Count", mock.Anything, filter).Return(int64(3), nil)

	page, err := svc.List(context.Background(), query.Spec{Filter: filter, Count: true})

	require.NoError(t, err)
	assert.True(t, page.CountOnly)
	assert.Equal(t, int64(3), page.Count)
	tasksStore.AssertExpectations(t)
	tasksStore.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestTaskCreate_StoreFailureIsNotAClientError(t *testing.T) {
	store := newMemStore()
	tasksStore := new(mockTaskStore)
	svc := service.NewTaskService(tasksStore, store.userStore())
	tasksStore.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(assert.AnError)

	_, err := svc.Create(context.Background(), service.TaskInput{Name: "a", Deadline: "2030-01-01"})

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, service.IsValidation(err))
	assert.False(t, service.IsNotFound(err))
}
