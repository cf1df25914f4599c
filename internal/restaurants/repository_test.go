package restaurants_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"restohub/backend/internal/pagination"
	"restohub/backend/internal/restaurants"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	ns := func(mt *mtest.T) string {
		return mt.Coll.Database().Name() + "." + mt.Coll.Name()
	}

	mt.Run("find not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		repo := restaurants.NewRepository(mt.Coll)

		_, err := repo.Find(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, restaurants.ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("find decodes free-form attributes", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Pho 99"},
			{Key: "ownerId", Value: "owner-1"},
			{Key: "searchScore", Value: int32(10)},
			{Key: "pictureId", Value: nil},
			{Key: "phone", Value: "555-0100"},
		}))
		repo := restaurants.NewRepository(mt.Coll)

		r, err := repo.Find(context.Background(), id)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if r.ID != id || r.Name != "Pho 99" || r.OwnerID != "owner-1" || r.SearchScore != 10 {
			mt.Errorf("restaurant = %+v", r)
		}
		if r.PictureID != nil {
			mt.Errorf("pictureId = %v, want nil", *r.PictureID)
		}
		if r.Attributes["phone"] != "555-0100" {
			mt.Errorf("attributes = %v", r.Attributes)
		}
	})

	mt.Run("insert returns generated id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := restaurants.NewRepository(mt.Coll)

		id, err := repo.Insert(context.Background(), bson.M{"name": "A", "ownerId": "o"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if id.IsZero() {
			mt.Error("expected a generated id")
		}
	})

	mt.Run("insert duplicate owner", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: restaurants index: ownerId_1",
		}))
		repo := restaurants.NewRepository(mt.Coll)

		_, err := repo.Insert(context.Background(), bson.M{"ownerId": "o"})
		if !errors.Is(err, restaurants.ErrDuplicateOwner) {
			mt.Errorf("err = %v, want ErrDuplicateOwner", err)
		}
	})

	mt.Run("update unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		repo := restaurants.NewRepository(mt.Coll)

		_, err := repo.Update(context.Background(), primitive.NewObjectID(), bson.M{"name": "x"})
		if !errors.Is(err, restaurants.ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("update modified count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := restaurants.NewRepository(mt.Coll)

		modified, err := repo.Update(context.Background(), primitive.NewObjectID(), bson.M{"name": "x"})
		if err != nil || modified != 1 {
			mt.Errorf("modified = %d, err = %v", modified, err)
		}
	})

	mt.Run("delete unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := restaurants.NewRepository(mt.Coll)

		_, err := repo.Delete(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, restaurants.ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("list counts and pages", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int64(3)}}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "A"}, {Key: "ownerId", Value: "a"}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "B"}, {Key: "ownerId", Value: "b"}},
			),
		)
		repo := restaurants.NewRepository(mt.Coll)

		list, total, err := repo.List(context.Background(), restaurants.ListQuery(pagination.Request{Page: 1, Limit: 2}, true))
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if total != 3 || len(list) != 2 {
			mt.Errorf("total = %d, len = %d, want 3 and 2", total, len(list))
		}
	})
}
