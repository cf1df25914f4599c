package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type gridFSBucket struct {
	bucket *gridfs.Bucket
	logger *slog.Logger
}

// NewGridFS wraps a GridFS bucket. Object identifiers are ObjectID hex strings.
func NewGridFS(bucket *gridfs.Bucket, logger *slog.Logger) Bucket {
	return &gridFSBucket{
		bucket: bucket,
		logger: logger.With("system", "storage", "backend", "gridfs"),
	}
}

func (g *gridFSBucket) Upload(ctx context.Context, in UploadInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	opts := options.GridFSUpload().SetMetadata(uploadMetadata(in))
	id, err := g.bucket.UploadFromStream(in.Filename, in.Body, opts)
	if err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}

	g.logger.Info("object stored", "id", id.Hex(), "restaurant_id", in.RestaurantID)
	return id.Hex(), nil
}

func (g *gridFSBucket) Open(ctx context.Context, id string) (*Object, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := g.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gridfs open: %w", err)
	}

	file := stream.GetFile()
	return &Object{
		ID:          id,
		ContentType: metadataContentType(file.Metadata),
		Size:        file.Length,
		Body:        stream,
	}, nil
}

func (g *gridFSBucket) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := g.bucket.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("gridfs delete: %w", err)
	}

	g.logger.Info("object deleted", "id", id)
	return nil
}

func uploadMetadata(in UploadInput) bson.M {
	return bson.M{
		MetaContentType:  in.ContentType,
		MetaRestaurantID: in.RestaurantID,
		MetaUploadedAt:   in.UploadedAt,
	}
}

func metadataContentType(meta bson.Raw) string {
	if len(meta) == 0 {
		return ""
	}
	ct, _ := meta.Lookup(MetaContentType).StringValueOK()
	return ct
}
