// Package database owns the process-wide MongoDB handles. A Manager is
// connected once at startup and injected into the components that need it;
// asking for a handle before Connect succeeds returns ErrNotConnected.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restohub/backend/internal/config"
)

// Collection names.
const (
	RestaurantsCollection = "restaurants"
	UsersCollection       = "users"
)

// ErrNotConnected is returned when a handle is requested before Connect succeeds.
var ErrNotConnected = errors.New("database: not connected")

// Manager holds the active client, database and GridFS bucket handles.
type Manager struct {
	cfg        config.DatabaseConfig
	bucketName string
	logger     *slog.Logger

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	bucket *gridfs.Bucket
}

// New creates an unconnected Manager.
func New(cfg *config.DatabaseConfig, bucketName string, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:        *cfg,
		bucketName: bucketName,
		logger:     logger.With("system", "database"),
	}
}

// Connect dials MongoDB, pings the primary and opens the GridFS bucket.
func (m *Manager) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeoutDuration())
	defer cancel()

	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping: %w", err)
	}

	db := client.Database(m.cfg.Name)
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(m.bucketName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("open gridfs bucket %s: %w", m.bucketName, err)
	}

	m.mu.Lock()
	m.client = client
	m.db = db
	m.bucket = bucket
	m.mu.Unlock()

	m.logger.Info("connected to mongodb", "database", m.cfg.Name)
	return nil
}

// Database returns the active database handle.
func (m *Manager) Database() (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil, ErrNotConnected
	}
	return m.db, nil
}

// Collection returns a handle to the named collection.
func (m *Manager) Collection(name string) (*mongo.Collection, error) {
	db, err := m.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Bucket returns the GridFS bucket used for picture blobs.
func (m *Manager) Bucket() (*gridfs.Bucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.bucket == nil {
		return nil, ErrNotConnected
	}
	return m.bucket, nil
}

// Ping checks the connection to the primary.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, nil)
}

// EnsureIndexes creates the unique indexes backing owner and uid uniqueness.
func (m *Manager) EnsureIndexes(ctx context.Context) error {
	db, err := m.Database()
	if err != nil {
		return err
	}

	ownerIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().
			SetName("ownerId_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"ownerId": bson.M{"$type": "string"}}),
	}
	if _, err := db.Collection(RestaurantsCollection).Indexes().CreateOne(ctx, ownerIdx); err != nil {
		return fmt.Errorf("create restaurants ownerId index: %w", err)
	}

	uidIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetName("uid_unique").SetUnique(true),
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, uidIdx); err != nil {
		return fmt.Errorf("create users uid index: %w", err)
	}

	m.logger.Info("indexes ensured")
	return nil
}

// Disconnect closes the client. Handles are cleared first so later callers
// see ErrNotConnected.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client, m.db, m.bucket = nil, nil, nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	m.logger.Info("disconnected from mongodb")
	return nil
}
