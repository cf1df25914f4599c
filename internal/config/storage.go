package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	EnvStorageBackend          = "STORAGE_BACKEND"
	EnvStorageBucketName       = "STORAGE_BUCKET_NAME"
	EnvStorageMaxUploadSize    = "STORAGE_MAX_UPLOAD_SIZE"
	EnvStorageDriveFolderID    = "GOOGLE_DRIVE_FOLDER_ID"
	EnvStorageDriveCredentials = "DRIVE_CREDENTIALS"
)

// Supported blob storage backends.
const (
	BackendGridFS = "gridfs"
	BackendDrive  = "drive"
)

// StorageConfig contains picture blob storage configuration.
type StorageConfig struct {
	Backend          string `toml:"backend"`
	BucketName       string `toml:"bucket_name"`
	MaxUploadSize    string `toml:"max_upload_size"`
	DriveFolderID    string `toml:"drive_folder_id"`
	DriveCredentials string `toml:"drive_credentials"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed upload cap.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BucketName != "" {
		c.BucketName = overlay.BucketName
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.DriveFolderID != "" {
		c.DriveFolderID = overlay.DriveFolderID
	}
	if overlay.DriveCredentials != "" {
		c.DriveCredentials = overlay.DriveCredentials
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendGridFS
	}
	if c.BucketName == "" {
		c.BucketName = "pictures"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "5MB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvStorageBucketName); v != "" {
		c.BucketName = v
	}
	if v := os.Getenv(EnvStorageMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvStorageDriveFolderID); v != "" {
		c.DriveFolderID = v
	}
	if v := os.Getenv(EnvStorageDriveCredentials); v != "" {
		c.DriveCredentials = v
	}
}

func (c *StorageConfig) validate() error {
	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	switch c.Backend {
	case BackendGridFS:
		return nil
	case BackendDrive:
		if c.DriveCredentials == "" {
			return fmt.Errorf("drive backend requires credentials (set %s)", EnvStorageDriveCredentials)
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q (must be %s or %s)", c.Backend, BackendGridFS, BackendDrive)
	}
}
