package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"restohub/backend/internal/config"
	"restohub/backend/internal/database"
	"restohub/backend/internal/logging"
	"restohub/backend/internal/middleware"
	"restohub/backend/internal/restaurants"
	"restohub/backend/internal/server"
	"restohub/backend/internal/storage"
	"restohub/backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	gin.SetMode(cfg.Server.GinMode)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.New(&cfg.Database, cfg.Storage.BucketName, logger)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Disconnect(shutdownCtx); err != nil {
			logger.Error("failed to disconnect database", "error", err)
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeoutDuration())
	if err := db.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("could not ensure unique indexes, relying on application checks", "error", err)
	}
	cancel()

	bucket, err := newBucket(ctx, cfg, db, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	restaurantColl, err := db.Collection(database.RestaurantsCollection)
	if err != nil {
		return err
	}
	userColl, err := db.Collection(database.UsersCollection)
	if err != nil {
		return err
	}

	restaurantSvc := restaurants.NewService(restaurants.NewRepository(restaurantColl), bucket, cfg.Restaurants, logger)
	userSvc := users.NewService(users.NewRepository(userColl), cfg.Users.Roles, logger)

	deps := server.Deps{
		Health: db,
		Restaurants: restaurants.NewHandler(restaurantSvc, cfg.Pagination,
			cfg.Storage.MaxUploadSizeBytes(), cfg.Database.OpTimeoutDuration(), logger),
		Users: users.NewHandler(userSvc, cfg.Pagination, cfg.Database.OpTimeoutDuration(), logger),
	}

	if cfg.Auth.Enabled {
		authClient, err := middleware.NewFirebaseAuth(ctx, cfg.Auth.KeyData)
		if err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		deps.Verifier = authClient
		logger.Info("firebase authentication enabled")
	}

	router := server.NewRouter(cfg, deps, logger)
	return server.Run(ctx, &cfg.Server, router, logger)
}

func newBucket(ctx context.Context, cfg *config.Config, db *database.Manager, logger *slog.Logger) (storage.Bucket, error) {
	switch cfg.Storage.Backend {
	case config.BackendDrive:
		srv, err := storage.NewDriveService(ctx, cfg.Storage.DriveCredentials)
		if err != nil {
			return nil, err
		}
		logger.Info("using google drive picture storage", "folder_id", cfg.Storage.DriveFolderID)
		return storage.NewDrive(srv, cfg.Storage.DriveFolderID, logger), nil
	default:
		gfs, err := db.Bucket()
		if err != nil {
			return nil, err
		}
		logger.Info("using gridfs picture storage", "bucket", cfg.Storage.BucketName)
		return storage.NewGridFS(gfs, logger), nil
	}
}
