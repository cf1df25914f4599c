package restaurants

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restohub/backend/internal/config"
	"restohub/backend/internal/models"
	"restohub/backend/internal/pagination"
	"restohub/backend/internal/storage"
)

// DefaultPictureContentType is served when a stored picture has no content type.
const DefaultPictureContentType = "image/jpeg"

// sniffLen is how much of an upload is read to detect its real content type.
const sniffLen = 3072

// Fields the client may never set on create.
var serverManaged = []string{"_id", "searchScore", "pictureId", "createdAt"}

// Fields an update never touches.
var immutable = map[string]bool{
	"_id":       true,
	"ownerId":   true,
	"createdAt": true,
	"pictureId": true,
}

var stringFields = []string{"name", "cuisine", "address", "ownerId"}

// Page is one page of restaurants with its pagination envelope.
type Page struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Pagination  pagination.Meta     `json:"pagination"`
}

// PictureUpload is a client-supplied picture.
type PictureUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Service implements restaurant operations over a Repository and a picture Bucket.
type Service struct {
	repo   Repository
	bucket storage.Bucket
	policy config.RestaurantsConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a restaurant service.
func NewService(repo Repository, bucket storage.Bucket, policy config.RestaurantsConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bucket: bucket,
		policy: policy,
		logger: logger.With("service", "restaurants"),
		now:    time.Now,
	}
}

// List returns one page of all restaurants.
func (s *Service) List(ctx context.Context, page pagination.Request) (*Page, error) {
	return s.page(ctx, ListQuery(page, s.policy.SortListByScore()), page)
}

// Search returns one page of restaurants matching the parameters.
func (s *Service) Search(ctx context.Context, params SearchParams) (*Page, error) {
	return s.page(ctx, params.ToQuery(s.policy.ScorePrimaryInSearch()), params.Page)
}

func (s *Service) page(ctx context.Context, q Query, page pagination.Request) (*Page, error) {
	restaurants, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Page{
		Restaurants: restaurants,
		Pagination:  pagination.NewMeta(page, total),
	}, nil
}

// Get returns the restaurant with the given hex id.
func (s *Service) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, oid)
}

// FindByOwner returns the restaurant owned by ownerID.
func (s *Service) FindByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	return s.repo.FindByOwner(ctx, ownerID)
}

// Create inserts a restaurant from a free-form body and returns its id.
func (s *Service) Create(ctx context.Context, body map[string]interface{}) (primitive.ObjectID, error) {
	if body == nil {
		return primitive.NilObjectID, ErrInvalidBody
	}

	doc := bson.M{}
	for k, v := range body {
		doc[k] = v
	}
	for _, k := range serverManaged {
		delete(doc, k)
	}
	if err := validateAttributes(doc); err != nil {
		return primitive.NilObjectID, err
	}

	ownerID, _ := doc["ownerId"].(string)
	if ownerID == "" {
		return primitive.NilObjectID, ErrOwnerRequired
	}

	_, err := s.repo.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		return primitive.NilObjectID, ErrDuplicateOwner
	case !errors.Is(err, ErrNotFound):
		return primitive.NilObjectID, err
	}

	doc["searchScore"] = models.DefaultSearchScore
	doc["createdAt"] = s.now().UTC()
	doc["pictureId"] = nil

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	s.logger.Info("restaurant created", "id", id.Hex(), "owner_id", ownerID)
	return id, nil
}

// Update sets the supplied fields on a restaurant owned by ownerID and
// returns the number of modified documents.
func (s *Service) Update(ctx context.Context, id, ownerID string, body map[string]interface{}) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	if body == nil {
		return 0, ErrInvalidBody
	}
	if _, err := s.authorize(ctx, oid, ownerID); err != nil {
		return 0, err
	}

	set := bson.M{}
	for k, v := range body {
		if !immutable[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return 0, ErrNoUpdates
	}
	if err := validateAttributes(set); err != nil {
		return 0, err
	}

	return s.repo.Update(ctx, oid, set)
}

// Delete removes a restaurant owned by ownerID. Its picture is removed
// afterwards on a best-effort basis.
func (s *Service) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	restaurant, err := s.authorize(ctx, oid, ownerID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return 0, err
	}

	if restaurant.PictureID != nil {
		s.discardPicture(ctx, *restaurant.PictureID, oid)
	}
	return deleted, nil
}

// UploadPicture stores a new picture for a restaurant and returns its blob id.
//
// The new blob is written first and then committed on the document. Only
// after the commit is the previous blob deleted, so a failure at any step
// leaves the document pointing at a readable picture. A failed commit
// removes the orphaned new blob.
func (s *Service) UploadPicture(ctx context.Context, id string, up PictureUpload) (string, error) {
	oid, err := parseID(id)
	if err != nil {
		return "", err
	}
	if up.Body == nil {
		return "", ErrNoFile
	}
	if !isImage(up.ContentType) {
		return "", fmt.Errorf("%w: declared %q", ErrInvalidContentType, up.ContentType)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read picture: %w", err)
	}
	head = head[:n]
	detected := mimetype.Detect(head).String()
	if !isImage(detected) {
		return "", fmt.Errorf("%w: content is %s", ErrInvalidContentType, detected)
	}

	restaurant, err := s.repo.Find(ctx, oid)
	if err != nil {
		return "", err
	}

	newID, err := s.bucket.Upload(ctx, storage.UploadInput{
		Filename:     up.Filename,
		ContentType:  detected,
		RestaurantID: oid.Hex(),
		UploadedAt:   s.now().UTC(),
		Body:         io.MultiReader(bytes.NewReader(head), up.Body),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if err := s.repo.SetPicture(ctx, oid, newID); err != nil {
		if derr := s.bucket.Delete(ctx, newID); derr != nil {
			s.logger.Warn("failed to remove uncommitted picture",
				"restaurant_id", oid.Hex(), "picture_id", newID, "error", derr)
		}
		return "", fmt.Errorf("commit picture: %w", err)
	}

	if old := restaurant.PictureID; old != nil && *old != newID {
		s.discardPicture(ctx, *old, oid)
	}

	s.logger.Info("picture uploaded", "restaurant_id", oid.Hex(), "picture_id", newID)
	return newID, nil
}

// OpenPicture opens the current picture of a restaurant. Callers must close
// the returned object's Body.
func (s *Service) OpenPicture(ctx context.Context, id string) (*storage.Object, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.repo.Find(ctx, oid)
	if err != nil {
		return nil, err
	}
	if restaurant.PictureID == nil || *restaurant.PictureID == "" {
		return nil, ErrPictureNotFound
	}

	obj, err := s.bucket.Open(ctx, *restaurant.PictureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPictureNotFound, err)
	}
	if obj.ContentType == "" {
		obj.ContentType = DefaultPictureContentType
	}
	return obj, nil
}

// authorize loads a restaurant and checks that ownerID owns it.
func (s *Service) authorize(ctx context.Context, oid primitive.ObjectID, ownerID string) (*models.Restaurant, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	restaurant, err := s.repo.Find(ctx, oid)
	if err != nil {
		return nil, err
	}
	if restaurant.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return restaurant, nil
}

func (s *Service) discardPicture(ctx context.Context, pictureID string, oid primitive.ObjectID) {
	if err := s.bucket.Delete(ctx, pictureID); err != nil {
		s.logger.Warn("failed to delete superseded picture",
			"restaurant_id", oid.Hex(), "picture_id", pictureID, "error", err)
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// validateAttributes rejects operator-like keys, non-string values for the
// known text fields and a non-numeric searchScore.
func validateAttributes(doc bson.M) error {
	for k := range doc {
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			return fmt.Errorf("%w: field name %q", ErrInvalidAttribute, k)
		}
	}
	for _, k := range stringFields {
		v, ok := doc[k]
		if !ok {
			continue
		}
		if _, isString := v.(string); !isString {
			return fmt.Errorf("%w: %s must be a string", ErrInvalidAttribute, k)
		}
	}
	if v, ok := doc["searchScore"]; ok && !isNumber(v) {
		return fmt.Errorf("%w: searchScore must be a number", ErrInvalidAttribute)
	}
	return nil
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	default:
		return false
	}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
