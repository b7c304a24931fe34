package model

import (
	"time"

	"taskapi/internal/query"
)

// UnassignedName is the assignedUserName of a task with no assigned user.
const UnassignedName = "unassigned"

type Task struct {
	ID               string    `gorm:"primaryKey" bson:"_id" json:"_id"`
	Name             string    `gorm:"not null" bson:"name" json:"name"`
	Description      string    `bson:"description" json:"description"`
	Deadline         time.Time `gorm:"not null" bson:"deadline" json:"deadline"`
	Completed        bool      `bson:"completed" json:"completed"`
	AssignedUser     string    `gorm:"index" bson:"assignedUser" json:"assignedUser"`
	AssignedUserName string    `bson:"assignedUserName" json:"assignedUserName"`
	DateCreated      time.Time `bson:"dateCreated" json:"dateCreated"`
}

func (t *Task) IsAssigned() bool {
	return t.AssignedUser != ""
}

// Unassign resets both assignment fields to their sentinels.
func (t *Task) Unassign() {
	t.AssignedUser = ""
	t.AssignedUserName = UnassignedName
}

// Pending reports whether the task must appear in its user's pendingTasks.
func (t *Task) Pending() bool {
	return t.IsAssigned() && !t.Completed
}

var TaskSchema = query.NewSchema(
	query.Field{Name: query.IDField, Column: "id", Kind: query.KindString},
	query.Field{Name: "name", Column: "name", Kind: query.KindString},
	query.Field{Name: "description", Column: "description", Kind: query.KindString},
	query.Field{Name: "deadline", Column: "deadline", Kind: query.KindTime},
	query.Field{Name: "completed", Column: "completed", Kind: query.KindBool},
	query.Field{Name: "assignedUser", Column: "assigned_user", Kind: query.KindString},
	query.Field{Name: "assignedUserName", Column: "assigned_user_name", Kind: query.KindString},
	query.Field{Name: "dateCreated", Column: "date_created", Kind: query.KindTime},
)

// TaskField returns the schema entry for name; it panics on unknown names.
func TaskField(name string) query.Field {
	f, ok := TaskSchema.Lookup(name)
	if !ok {
		panic("model: unknown task field " + name)
	}
	return f
}
