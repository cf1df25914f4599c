package database_test

import (
	"context"
	"errors"
	"testing"

	"restohub/backend/internal/config"
	"restohub/backend/internal/database"
	"restohub/backend/internal/logging"
)

func newManager() *database.Manager {
	cfg := &config.DatabaseConfig{
		URI:            "mongodb://localhost:27017",
		Name:           "restohub_test",
		ConnectTimeout: "1s",
		OpTimeout:      "1s",
	}
	return database.New(cfg, "pictures", logging.Discard())
}

func TestManager_NotConnected(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	if _, err := m.Database(); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("Database() error = %v, want ErrNotConnected", err)
	}
	if _, err := m.Collection(database.RestaurantsCollection); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("Collection() error = %v, want ErrNotConnected", err)
	}
	if _, err := m.Bucket(); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("Bucket() error = %v, want ErrNotConnected", err)
	}
	if err := m.Ping(ctx); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("Ping() error = %v, want ErrNotConnected", err)
	}
	if err := m.EnsureIndexes(ctx); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("EnsureIndexes() error = %v, want ErrNotConnected", err)
	}
}

func TestManager_DisconnectWithoutConnect(t *testing.T) {
	m := newManager()
	if err := m.Disconnect(context.Background()); err != nil {
		t.Errorf("Disconnect() error = %v, want nil", err)
	}
}
