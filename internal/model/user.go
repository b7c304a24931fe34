package model

import (
	"time"

	"github.com/lib/pq"

	"taskapi/internal/query"
)

type User struct {
	ID           string         `gorm:"primaryKey" bson:"_id" json:"_id"`
	Name         string         `gorm:"not null" bson:"name" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	PendingTasks pq.StringArray `gorm:"type:text[]" bson:"pendingTasks" json:"pendingTasks"`
	DateCreated  time.Time      `bson:"dateCreated" json:"dateCreated"`
}

var UserSchema = query.NewSchema(
	query.Field{Name: query.IDField, Column: "id", Kind: query.KindString},
	query.Field{Name: "name", Column: "name", Kind: query.KindString},
	query.Field{Name: "email", Column: "email", Kind: query.KindString},
	query.Field{Name: "pendingTasks", Column: "pending_tasks", Kind: query.KindStringSet},
	query.Field{Name: "dateCreated", Column: "date_created", Kind: query.KindTime},
)

func UserField(name string) query.Field {
	f, ok := UserSchema.Lookup(name)
	if !ok {
		panic("model: unknown user field " + name)
	}
	return f
}

// TaskIDSet de-duplicates ids, keeping the first occurrence of each.
func TaskIDSet(ids []string) pq.StringArray {
	seen := make(map[string]bool, len(ids))
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
