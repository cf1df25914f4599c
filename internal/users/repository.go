package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restohub/backend/internal/models"
	"restohub/backend/internal/pagination"
)

// Repository is the user document store.
type Repository interface {
	// List returns users in insertion order. A nil page returns every user.
	List(ctx context.Context, page *pagination.Request) ([]models.User, int64, error)
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	UpdateByUID(ctx context.Context, uid string, set bson.M) (int64, error)
	DeleteByUID(ctx context.Context, uid string) (int64, error)
}

type repo struct {
	coll *mongo.Collection
}

// NewRepository returns a Repository backed by the given collection.
func NewRepository(coll *mongo.Collection) Repository {
	return &repo{coll: coll}
}

func (r *repo) List(ctx context.Context, page *pagination.Request) ([]models.User, int64, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	var total int64 = -1
	if page != nil {
		n, err := r.coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, 0, fmt.Errorf("count users: %w", err)
		}
		total = n
		opts.SetSkip(page.Offset()).SetLimit(int64(page.Limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = make([]models.User, 0)
	}
	if total < 0 {
		total = int64(len(users))
	}
	return users, total, nil
}

func (r *repo) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *repo) Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateUID
		}
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *repo) UpdateByUID(ctx context.Context, uid string, set bson.M) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, ErrNotFound
	}
	return res.ModifiedCount, nil
}

func (r *repo) DeleteByUID(ctx context.Context, uid string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return 0, ErrNotFound
	}
	return res.DeletedCount, nil
}
