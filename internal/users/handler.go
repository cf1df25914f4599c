package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restohub/backend/internal/middleware"
	"restohub/backend/internal/pagination"
	"restohub/backend/internal/respond"
)

// Handler serves the user routes.
type Handler struct {
	svc       *Service
	pages     pagination.Config
	opTimeout time.Duration
	logger    *slog.Logger
}

// NewHandler creates a user Handler.
func NewHandler(svc *Service, pages pagination.Config, opTimeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		pages:     pages,
		opTimeout: opTimeout,
		logger:    logger.With("handler", "users"),
	}
}

// RegisterRoutes mounts the user routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/uid/:uid", h.Get)
	rg.PATCH("/uid/:uid", h.Update)
	rg.PATCH("/uid/:uid/verify-email", h.VerifyEmail)
	rg.DELETE("/uid/:uid", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}
	if uid := middleware.CallerUID(c); uid != "" && body != nil {
		body["uid"] = uid
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	user, err := h.svc.Create(ctx, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": user.ID.Hex(), "user": user})
}

// List returns every user, or one page when a limit is requested.
func (h *Handler) List(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	if c.Query("limit") == "" {
		users, _, err := h.svc.List(ctx, nil)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
		return
	}

	page := pagination.RequestFromQuery(c.Request.URL.Query(), h.pages.ListPageSize, h.pages.MaxPageSize)
	users, total, err := h.svc.List(ctx, &page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination.NewMeta(page, total)})
}

func (h *Handler) Get(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	user, err := h.svc.Get(ctx, c.Param("uid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) Update(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	modified, err := h.svc.Update(ctx, c.Param("uid"), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
}

type verifyEmailRequest struct {
	IsEmailVerified *bool `json:"isEmailVerified"`
}

// VerifyEmail sets the verification flag, defaulting to true when the body omits it.
func (h *Handler) VerifyEmail(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}
	verified := true
	if req.IsEmailVerified != nil {
		verified = *req.IsEmailVerified
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	if err := h.svc.SetEmailVerified(ctx, c.Param("uid"), verified); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isEmailVerified": verified})
}

func (h *Handler) Delete(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	ctx, cancel := h.timeout(c)
	defer cancel()

	deleted, err := h.svc.Delete(ctx, c.Param("uid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

// authorize rejects an authenticated caller acting on another uid.
func (h *Handler) authorize(c *gin.Context) bool {
	if uid := middleware.CallerUID(c); uid != "" && uid != c.Param("uid") {
		h.fail(c, ErrForbidden)
		return false
	}
	return true
}

func (h *Handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.opTimeout)
}

func (h *Handler) fail(c *gin.Context, err error) {
	respond.Error(c, h.logger, MapHTTPStatus(err), err)
}
