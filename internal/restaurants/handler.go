package restaurants

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"restohub/backend/internal/middleware"
	"restohub/backend/internal/pagination"
	"restohub/backend/internal/respond"
)

// Handler serves the restaurant routes.
type Handler struct {
	svc       *Service
	pages     pagination.Config
	maxUpload int64
	opTimeout time.Duration
	logger    *slog.Logger
}

// NewHandler creates a restaurant Handler.
func NewHandler(svc *Service, pages pagination.Config, maxUpload int64, opTimeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		pages:     pages,
		maxUpload: maxUpload,
		opTimeout: opTimeout,
		logger:    logger.With("handler", "restaurants"),
	}
}

// RegisterRoutes mounts the restaurant routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/search", h.Search)
	rg.GET("/owner/:ownerId", h.FindByOwner)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/picture", h.UploadPicture)
	rg.GET("/:id/picture", h.DownloadPicture)
}

// List returns a page of restaurants.
func (h *Handler) List(c *gin.Context) {
	page := pagination.RequestFromQuery(c.Request.URL.Query(), h.pages.ListPageSize, h.pages.MaxPageSize)

	ctx, cancel := h.timeout(c)
	defer cancel()

	result, err := h.svc.List(ctx, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search filters restaurants by a substring of one field.
func (h *Handler) Search(c *gin.Context) {
	params, err := ParseSearch(c.Request.URL.Query(), h.pages)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	result, err := h.svc.Search(ctx, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Get(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	restaurant, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

func (h *Handler) FindByOwner(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	restaurant, err := h.svc.FindByOwner(ctx, c.Param("ownerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// Create inserts a restaurant. An authenticated caller always owns what it creates.
func (h *Handler) Create(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	if uid := middleware.CallerUID(c); uid != "" {
		body["ownerId"] = uid
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	id, err := h.svc.Create(ctx, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"restaurantId": id.Hex()})
}

func (h *Handler) Update(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	supplied, _ := body["ownerId"].(string)

	ctx, cancel := h.timeout(c)
	defer cancel()

	modified, err := h.svc.Update(ctx, c.Param("id"), callerOwner(c, supplied), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
}

func (h *Handler) Delete(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	deleted, err := h.svc.Delete(ctx, c.Param("id"), callerOwner(c, c.Query("ownerId")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

// UploadPicture replaces the restaurant picture with the multipart "picture" file.
func (h *Handler) UploadPicture(c *gin.Context) {
	if _, err := parseID(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	header, err := c.FormFile("picture")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.fail(c, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, h.maxUpload))
		case errors.Is(err, http.ErrMissingFile):
			h.fail(c, ErrNoFile)
		default:
			h.fail(c, fmt.Errorf("%w: %v", ErrNoFile, err))
		}
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("open picture: %w", err))
		return
	}
	defer file.Close()

	fileID, err := h.svc.UploadPicture(c.Request.Context(), c.Param("id"), PictureUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fileId": fileID, "filename": header.Filename})
}

// DownloadPicture streams the current restaurant picture.
func (h *Handler) DownloadPicture(c *gin.Context) {
	obj, err := h.svc.OpenPicture(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer obj.Body.Close()

	c.Header("Content-Type", obj.ContentType)
	if obj.Size >= 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		h.logger.Error("failed to stream picture", "id", c.Param("id"), "error", err)
	}
}

func (h *Handler) bindBody(c *gin.Context) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return nil, false
	}
	if body == nil {
		h.fail(c, ErrInvalidBody)
		return nil, false
	}
	return body, true
}

func (h *Handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.opTimeout)
}

func (h *Handler) fail(c *gin.Context, err error) {
	respond.Error(c, h.logger, MapHTTPStatus(err), err)
}

// callerOwner prefers the authenticated uid over a client-supplied owner id.
func callerOwner(c *gin.Context, supplied string) string {
	if uid := middleware.CallerUID(c); uid != "" {
		return uid
	}
	return supplied
}
