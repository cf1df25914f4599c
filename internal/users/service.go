package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"restohub/backend/internal/models"
	"restohub/backend/internal/pagination"
)

var requiredFields = []string{"uid", "email", "name", "role"}

// Fields that are set once at creation.
var immutable = map[string]bool{
	"uid":       true,
	"_id":       true,
	"createdAt": true,
}

// Service implements user operations.
type Service struct {
	repo   Repository
	roles  map[string]bool
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a user service accepting the given roles.
func NewService(repo Repository, roles []string, logger *slog.Logger) *Service {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return &Service{
		repo:   repo,
		roles:  allowed,
		logger: logger.With("service", "users"),
		now:    time.Now,
	}
}

// Create inserts a user. isEmailVerified is false unless the body sets it to true.
func (s *Service) Create(ctx context.Context, body map[string]interface{}) (*models.User, error) {
	if body == nil {
		return nil, ErrInvalidBody
	}

	doc := bson.M{}
	for k, v := range body {
		doc[k] = v
	}
	delete(doc, "_id")
	if err := validateKeys(doc); err != nil {
		return nil, err
	}

	for _, f := range requiredFields {
		v, ok := doc[f].(string)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f)
		}
	}
	role := doc["role"].(string)
	if !s.roles[role] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	uid := doc["uid"].(string)
	_, err := s.repo.FindByUID(ctx, uid)
	switch {
	case err == nil:
		return nil, ErrDuplicateUID
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	verified, _ := doc["isEmailVerified"].(bool)
	now := s.now().UTC()
	doc["isEmailVerified"] = verified
	doc["createdAt"] = now
	doc["updatedAt"] = now

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "uid", uid, "role", role)

	user := &models.User{
		ID:              id,
		UID:             uid,
		Email:           doc["email"].(string),
		Name:            doc["name"].(string),
		Role:            role,
		IsEmailVerified: verified,
		CreatedAt:       now,
		UpdatedAt:       now,
		Attributes:      map[string]interface{}{},
	}
	for k, v := range doc {
		switch k {
		case "uid", "email", "name", "role", "isEmailVerified", "createdAt", "updatedAt":
		default:
			user.Attributes[k] = v
		}
	}
	return user, nil
}

// Get returns the user with the given uid.
func (s *Service) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.repo.FindByUID(ctx, uid)
}

// List returns users, bounded only when page is non-nil.
func (s *Service) List(ctx context.Context, page *pagination.Request) ([]models.User, int64, error) {
	return s.repo.List(ctx, page)
}

// Update merges the supplied fields into the user and refreshes updatedAt.
func (s *Service) Update(ctx context.Context, uid string, body map[string]interface{}) (int64, error) {
	if body == nil {
		return 0, ErrInvalidBody
	}

	set := bson.M{}
	for k, v := range body {
		if !immutable[k] {
			set[k] = v
		}
	}
	if err := validateKeys(set); err != nil {
		return 0, err
	}
	for _, f := range []string{"email", "name", "role"} {
		v, ok := set[f]
		if !ok {
			continue
		}
		if str, isString := v.(string); !isString || strings.TrimSpace(str) == "" {
			return 0, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidAttribute, f)
		}
	}
	if role, ok := set["role"].(string); ok && !s.roles[role] {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if v, ok := set["isEmailVerified"]; ok {
		if _, isBool := v.(bool); !isBool {
			return 0, fmt.Errorf("%w: isEmailVerified must be a boolean", ErrInvalidAttribute)
		}
	}
	set["updatedAt"] = s.now().UTC()

	return s.repo.UpdateByUID(ctx, uid, set)
}

// SetEmailVerified sets only the verification flag and updatedAt.
func (s *Service) SetEmailVerified(ctx context.Context, uid string, verified bool) error {
	_, err := s.repo.UpdateByUID(ctx, uid, bson.M{
		"isEmailVerified": verified,
		"updatedAt":       s.now().UTC(),
	})
	return err
}

// Delete removes the user with the given uid.
func (s *Service) Delete(ctx context.Context, uid string) (int64, error) {
	deleted, err := s.repo.DeleteByUID(ctx, uid)
	if err != nil {
		return 0, err
	}
	s.logger.Info("user deleted", "uid", uid)
	return deleted, nil
}

func validateKeys(doc bson.M) error {
	for k := range doc {
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			return fmt.Errorf("%w: field name %q", ErrInvalidAttribute, k)
		}
	}
	return nil
}
