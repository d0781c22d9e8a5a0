package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mealpersona-backend/internal/platform/gcp"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/s3"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

const (
	BlobProviderGCS  = "gcs"
	BlobProviderS3   = "s3"
	BlobProviderNone = "none"
)

var (
	newGCSStore = func(ctx context.Context, log *logger.Logger, cfg gcp.Config) (services.BlobStore, error) {
		return gcp.NewBucketService(ctx, log, cfg)
	}
	newS3Store = func(ctx context.Context, log *logger.Logger, cfg s3.Config) (services.BlobStore, error) {
		return s3.NewStore(ctx, log, cfg)
	}
)

type BlobProviderError struct {
	Provider string
	Cause    error
}

func (e *BlobProviderError) Error() string {
	return fmt.Sprintf("blob store bootstrap failed (provider=%q): %v", e.Provider, e.Cause)
}

func (e *BlobProviderError) Unwrap() error { return e.Cause }

// resolveBlobStore returns nil without error when uploads are disabled; the
// media service then answers 503 storage_unavailable.
func resolveBlobStore(ctx context.Context, log *logger.Logger, cfg Config) (services.BlobStore, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.BlobProvider))
	if provider == "" {
		provider = BlobProviderGCS
	}
	if provider != BlobProviderNone && strings.TrimSpace(cfg.BlobBucket) == "" {
		log.Warn("BLOB_BUCKET not set; meal photo uploads disabled", "provider", provider)
		return nil, nil
	}

	var (
		store services.BlobStore
		err   error
	)
	switch provider {
	case BlobProviderNone:
		log.Warn("Blob store disabled; meal photo uploads will fail")
		return nil, nil
	case BlobProviderGCS:
		store, err = newGCSStore(ctx, log, gcp.Config{
			Bucket:        cfg.BlobBucket,
			Credentials:   cfg.GCSCredentials,
			EmulatorHost:  cfg.GCSEmulatorHost,
			PublicBaseURL: cfg.BlobPublicBaseURL,
		})
	case BlobProviderS3:
		store, err = newS3Store(ctx, log, s3.Config{
			Bucket:        cfg.BlobBucket,
			Region:        cfg.S3Region,
			PublicBaseURL: cfg.BlobPublicBaseURL,
		})
	default:
		err = fmt.Errorf("unsupported BLOB_PROVIDER %q", provider)
	}
	if err != nil {
		log.Error("Blob store selection failed", "provider", provider, "error", err)
		return nil, &BlobProviderError{Provider: provider, Cause: err}
	}
	log.Info("Blob store selected", "provider", provider, "bucket", cfg.BlobBucket)
	return store, nil
}
