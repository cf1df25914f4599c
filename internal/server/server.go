// Package server assembles the gin engine and runs it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"restohub/backend/internal/config"
	"restohub/backend/internal/middleware"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouteRegistrar mounts a resource's routes on a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Deps are the collaborators wired into the router.
type Deps struct {
	Health      Pinger
	Restaurants RouteRegistrar
	Users       RouteRegistrar

	// Verifier enables token authentication on resource routes when non-nil.
	Verifier middleware.TokenVerifier
}

const healthTimeout = 2 * time.Second

// NewRouter builds the engine with logging, CORS, health and resource routes.
func NewRouter(cfg *config.Config, deps Deps, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	if cfg.CORS.Enabled && len(cfg.CORS.Origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.Origins,
			AllowMethods:     cfg.CORS.AllowedMethods,
			AllowHeaders:     cfg.CORS.AllowedHeaders,
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
		}))
	}

	router.GET("/health", healthHandler(deps.Health))

	api := router.Group("")
	if deps.Verifier != nil {
		api.Use(middleware.Auth(deps.Verifier, logger))
	}
	if deps.Restaurants != nil {
		deps.Restaurants.RegisterRoutes(api.Group("/restaurants"))
	}
	if deps.Users != nil {
		deps.Users.RegisterRoutes(api.Group("/users"))
	}

	return router
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves handler until ctx is cancelled, then shuts down within the
// configured timeout.
func Run(ctx context.Context, cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
