package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/repository"
)

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) Find(ctx context.Context, spec query.Spec) ([]model.User, error) {
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
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Count(ctx context.Context, f query.Filter) (int64, error) {
	return s.coll.CountDocuments(ctx, filterDoc(f))
}

func (s *UserStore) GetByID(ctx context.Context, id string, proj query.Projection) (*model.User, error) {
	opts := options.FindOne()
	if !proj.IsZero() {
		opts.SetProjection(projectionDoc(proj))
	}
	user, err := s.findOne(ctx, byID(id), opts)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

// FindByEmail returns nil, nil when no user has the address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}}, options.FindOne())
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D, opts *options.FindOneOptions) (*model.User, error) {
	var user model.User
	err := s.coll.FindOne(ctx, filter, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	if user.PendingTasks == nil {
		user.PendingTasks = model.TaskIDSet(nil)
	}
	_, err := s.coll.InsertOne(ctx, user)
	return translateWriteError(err)
}

func (s *UserStore) Replace(ctx context.Context, user *model.User) error {
	if user.PendingTasks == nil {
		user.PendingTasks = model.TaskIDSet(nil)
	}
	res, err := s.coll.ReplaceOne(ctx, byID(user.ID), user)
	if err != nil {
		return translateWriteError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) AddPendingTask(ctx context.Context, userID, taskID string) error {
	_, err := s.coll.UpdateOne(ctx, byID(userID),
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "pendingTasks", Value: taskID}}}})
	return err
}

func (s *UserStore) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	_, err := s.coll.UpdateOne(ctx, byID(userID),
		bson.D{{Key: "$pull", Value: bson.D{{Key: "pendingTasks", Value: taskID}}}})
	return err
}

func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateEmail
	}
	return err
}
