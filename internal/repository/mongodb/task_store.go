package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/repository"
)

type TaskStore struct {
	coll *mongo.Collection
}

func NewTaskStore(db *mongo.Database) *TaskStore {
	return &TaskStore{coll: db.Collection(tasksCollection)}
}

func (s *TaskStore) Find(ctx context.Context, spec query.Spec) ([]model.Task, error) {
	opts := findOptions(spec.Skip, spec.Limit)
	if len(spec.Sort) > 0 {
		opts.SetSort(sortDoc(spec.Sort))
	}
	if !spec.Projection.IsZero() {
		opts.SetProjection(projectionDoc(spec.Projection))
	}

	cur, err := s.coll.Find(ctx, filterDoc(spec.Filter), opts)
	if err != nil {
		return nil, err
	}
	tasks := []model.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) Count(ctx context.Context, f query.Filter) (int64, error) {
	return s.coll.CountDocuments(ctx, filterDoc(f))
}

func (s *TaskStore) GetByID(ctx context.Context, id string, proj query.Projection) (*model.Task, error) {
	opts := options.FindOne()
	if !proj.IsZero() {
		opts.SetProjection(projectionDoc(proj))
	}
	var task model.Task
	err := s.coll.FindOne(ctx, byID(id), opts).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	_, err := s.coll.InsertOne(ctx, task)
	return err
}

func (s *TaskStore) Replace(ctx context.Context, task *model.Task) error {
	res, err := s.coll.ReplaceOne(ctx, byID(task.ID), task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) UpdateMany(ctx context.Context, f query.Filter, set map[string]any) (int64, error) {
	update, err := setDoc(model.TaskSchema, set)
	if err != nil {
		return 0, err
	}
	res, err := s.coll.UpdateMany(ctx, filterDoc(f), update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
