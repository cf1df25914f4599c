package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryObject struct {
	data     []byte
	metadata map[string]string
}

// Memory is an in-memory Bucket for tests and local sandboxing.
// Fail* fields inject errors into the matching operation.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]*memoryObject

	FailUpload error
	FailOpen   error
	FailDelete error

	uploads int
	opens   int
	deletes int
}

// NewMemory constructs an empty bucket.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]*memoryObject)}
}

func (m *Memory) Upload(ctx context.Context, in UploadInput) (string, error) {
	m.mu.Lock()
	m.uploads++
	fail := m.FailUpload
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fail != nil {
		return "", fail
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return "", fmt.Errorf("memory upload: %w", err)
	}

	id := primitive.NewObjectID().Hex()
	m.mu.Lock()
	m.objects[id] = &memoryObject{
		data: data,
		metadata: map[string]string{
			MetaContentType:  in.ContentType,
			MetaRestaurantID: in.RestaurantID,
		},
	}
	m.mu.Unlock()
	return id, nil
}

func (m *Memory) Open(ctx context.Context, id string) (*Object, error) {
	m.mu.Lock()
	m.opens++
	fail := m.FailOpen
	obj, ok := m.objects[id]
	m.mu.Unlock()

	if fail != nil {
		return nil, fail
	}
	if !ok {
		return nil, ErrNotFound
	}
	return &Object{
		ID:          id,
		ContentType: obj.metadata[MetaContentType],
		Size:        int64(len(obj.data)),
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++

	if m.FailDelete != nil {
		return m.FailDelete
	}
	if _, ok := m.objects[id]; !ok {
		return ErrNotFound
	}
	delete(m.objects, id)
	return nil
}

// IDs returns the identifiers of all live objects.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.objects))
	for id := range m.objects {
		ids = append(ids, id)
	}
	return ids
}

// Metadata returns a copy of an object's metadata.
func (m *Memory) Metadata(id string) (map[string]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(obj.metadata))
	for k, v := range obj.metadata {
		out[k] = v
	}
	return out, true
}

// Calls reports how many times each operation was invoked.
func (m *Memory) Calls() (uploads, opens, deletes int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploads, m.opens, m.deletes
}
