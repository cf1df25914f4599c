package restaurants

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restohub/backend/internal/models"
)

// Repository is the restaurant document store.
type Repository interface {
	List(ctx context.Context, q Query) ([]models.Restaurant, int64, error)
	Find(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error)
	FindByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error)
	Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	SetPicture(ctx context.Context, id primitive.ObjectID, pictureID string) error
}

type repo struct {
	coll *mongo.Collection
}

// NewRepository returns a Repository backed by the given collection.
func NewRepository(coll *mongo.Collection) Repository {
	return &repo{coll: coll}
}

func (r *repo) List(ctx context.Context, q Query) ([]models.Restaurant, int64, error) {
	total, err := r.coll.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	opts := options.Find().SetSort(q.Sort).SetSkip(q.Skip).SetLimit(q.Limit)
	cursor, err := r.coll.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var restaurants []models.Restaurant
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, 0, fmt.Errorf("decode restaurants: %w", err)
	}
	if restaurants == nil {
		restaurants = make([]models.Restaurant, 0)
	}
	return restaurants, total, nil
}

func (r *repo) Find(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *repo) FindByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *repo) findOne(ctx context.Context, filter bson.M) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.coll.FindOne(ctx, filter).Decode(&restaurant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return &restaurant, nil
}

func (r *repo) Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateOwner
		}
		return primitive.NilObjectID, fmt.Errorf("insert restaurant: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert restaurant: unexpected id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *repo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update restaurant: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, ErrNotFound
	}
	return res.ModifiedCount, nil
}

func (r *repo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete restaurant: %w", err)
	}
	if res.DeletedCount == 0 {
		return 0, ErrNotFound
	}
	return res.DeletedCount, nil
}

func (r *repo) SetPicture(ctx context.Context, id primitive.ObjectID, pictureID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"pictureId": pictureID}})
	if err != nil {
		return fmt.Errorf("set picture: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
