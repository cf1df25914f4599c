// Package middleware holds the gin middleware shared by every route group:
// Firebase ID token verification and request logging.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"restohub/backend/internal/config"
)

// A private key for context access
type contextKey string

const userContextKey = contextKey("user")

// TokenVerifier verifies a bearer ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// NewFirebaseAuth builds a Firebase Auth client from a service account JSON.
func NewFirebaseAuth(ctx context.Context, keyData string) (*auth.Client, error) {
	creds, err := config.ServiceAccountJSON(keyData)
	if err != nil {
		return nil, fmt.Errorf("key data: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}
	return client, nil
}

// Auth verifies the Bearer token on every request and stores the verified
// token in the request context.
func Auth(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("middleware", "auth")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("invalid id token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userContextKey, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ForContext finds the user from the context.
func ForContext(ctx context.Context) *auth.Token {
	raw, _ := ctx.Value(userContextKey).(*auth.Token)
	return raw
}

// CallerUID returns the verified caller's uid, or "" when the request is
// unauthenticated.
func CallerUID(c *gin.Context) string {
	if token := ForContext(c.Request.Context()); token != nil {
		return token.UID
	}
	return ""
}
