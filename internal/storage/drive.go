package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"restohub/backend/internal/config"
)

// NewDriveService builds a Drive client from a service-account JSON document.
func NewDriveService(ctx context.Context, credentialsJSON string) (*drive.Service, error) {
	rectified, err := config.ServiceAccountJSON(credentialsJSON)
	if err != nil {
		return nil, fmt.Errorf("drive credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(rectified, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("drive jwt config: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return srv, nil
}

type driveBucket struct {
	srv      *drive.Service
	folderID string
	logger   *slog.Logger
}

// NewDrive stores pictures as private files under folderID (the Drive root
// when empty). Object identifiers are Drive file ids.
func NewDrive(srv *drive.Service, folderID string, logger *slog.Logger) Bucket {
	return &driveBucket{
		srv:      srv,
		folderID: folderID,
		logger:   logger.With("system", "storage", "backend", "drive"),
	}
}

func (d *driveBucket) Upload(ctx context.Context, in UploadInput) (string, error) {
	meta := &drive.File{
		Name:     in.Filename,
		MimeType: in.ContentType,
		AppProperties: map[string]string{
			MetaContentType:  in.ContentType,
			MetaRestaurantID: in.RestaurantID,
			MetaUploadedAt:   in.UploadedAt.UTC().Format(time.RFC3339),
		},
	}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	file, err := d.srv.Files.Create(meta).
		Media(in.Body, googleapi.ContentType(in.ContentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive upload: %w", mapDriveError(err))
	}

	d.logger.Info("object stored", "id", file.Id, "restaurant_id", in.RestaurantID)
	return file.Id, nil
}

func (d *driveBucket) Open(ctx context.Context, id string) (*Object, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	meta, err := d.srv.Files.Get(id).Fields("id", "mimeType", "size").Context(ctx).Do()
	if err != nil {
		return nil, mapDriveError(err)
	}

	resp, err := d.srv.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, mapDriveError(err)
	}

	return &Object{
		ID:          id,
		ContentType: meta.MimeType,
		Size:        meta.Size,
		Body:        resp.Body,
	}, nil
}

func (d *driveBucket) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := d.srv.Files.Delete(id).Context(ctx).Do(); err != nil {
		return mapDriveError(err)
	}
	d.logger.Info("object deleted", "id", id)
	return nil
}

func mapDriveError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, gerr.Message)
	}
	return err
}
