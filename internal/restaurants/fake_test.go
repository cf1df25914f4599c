package restaurants_test

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restohub/backend/internal/models"
	"restohub/backend/internal/restaurants"
)

// fakeRepo is an in-memory Repository. It keeps raw documents so free-form
// attributes survive a round trip the same way they do in MongoDB.
type fakeRepo struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]bson.M
	order []primitive.ObjectID
	calls int

	lastQuery      restaurants.Query
	failSetPicture error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[primitive.ObjectID]bson.M)}
}

func (f *fakeRepo) List(_ context.Context, q restaurants.Query) ([]models.Restaurant, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQuery = q

	total := int64(len(f.order))
	out := make([]models.Restaurant, 0)
	for i := q.Skip; i < total && int64(len(out)) < q.Limit; i++ {
		r, err := decode(f.docs[f.order[i]])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, nil
}

func (f *fakeRepo) Find(_ context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	doc, ok := f.docs[id]
	if !ok {
		return nil, restaurants.ErrNotFound
	}
	return decode(doc)
}

func (f *fakeRepo) FindByOwner(_ context.Context, ownerID string) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	for _, id := range f.order {
		if f.docs[id]["ownerId"] == ownerID {
			return decode(f.docs[id])
		}
	}
	return nil, restaurants.ErrNotFound
}

func (f *fakeRepo) Insert(_ context.Context, doc bson.M) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	id := primitive.NewObjectID()
	stored := bson.M{"_id": id}
	for k, v := range doc {
		stored[k] = v
	}
	f.docs[id] = stored
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	doc, ok := f.docs[id]
	if !ok {
		return 0, restaurants.ErrNotFound
	}
	for k, v := range set {
		doc[k] = v
	}
	return 1, nil
}

func (f *fakeRepo) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if _, ok := f.docs[id]; !ok {
		return 0, restaurants.ErrNotFound
	}
	delete(f.docs, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (f *fakeRepo) SetPicture(_ context.Context, id primitive.ObjectID, pictureID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.failSetPicture != nil {
		return f.failSetPicture
	}
	doc, ok := f.docs[id]
	if !ok {
		return restaurants.ErrNotFound
	}
	doc["pictureId"] = pictureID
	return nil
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRepo) raw(id primitive.ObjectID) bson.M {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id]
}

func decode(doc bson.M) (*models.Restaurant, error) {
	if doc == nil {
		return nil, errors.New("missing document")
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var r models.Restaurant
	if err := bson.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
