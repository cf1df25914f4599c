package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"restohub/backend/internal/config"
	"restohub/backend/internal/logging"
	"restohub/backend/internal/server"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoRoutes struct{}

func (echoRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
}

type rejectAll struct{}

func (rejectAll) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return nil, errors.New("denied")
}

func testConfig() *config.Config {
	return &config.Config{
		CORS: config.CORSConfig{
			Enabled:        true,
			Origins:        []string{"https://app.example.com"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         60,
		},
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		ping   error
		want   int
		status string
	}{
		{"reachable", nil, http.StatusOK, "ok"},
		{"unreachable", errors.New("no primary"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := server.NewRouter(testConfig(), server.Deps{Health: pinger{tt.ping}}, logging.Discard())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			var body map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["status"] != tt.status {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestRoutesAndAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	open := server.NewRouter(testConfig(), server.Deps{Restaurants: echoRoutes{}, Users: echoRoutes{}}, logging.Discard())
	for _, path := range []string{"/restaurants", "/users"} {
		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
	}

	guarded := server.NewRouter(testConfig(), server.Deps{
		Health:      pinger{},
		Restaurants: echoRoutes{},
		Verifier:    rejectAll{},
	}, logging.Discard())

	w := httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("guarded status = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health should stay public, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := server.NewRouter(testConfig(), server.Deps{Restaurants: echoRoutes{}}, logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &config.ServerConfig{Port: "0", ShutdownTimeout: "1s"}

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, cfg, http.NotFoundHandler(), logging.Discard())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
