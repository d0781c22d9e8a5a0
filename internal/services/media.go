package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

const MaxImageBytes = 10 << 20

// BlobStore is satisfied by the GCS and S3 platform stores.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type MediaService interface {
	// UploadMealImage validates and stores one photo, returning its public URL.
	UploadMealImage(ctx context.Context, externalID, filename, contentType string, data []byte) (string, error)
}

type mediaService struct {
	log   *logger.Logger
	store BlobStore
	clock Clock
}

func NewMediaService(log *logger.Logger, store BlobStore, clock Clock) MediaService {
	return &mediaService{
		log:   log.With("service", "MediaService"),
		store: store,
		clock: clock,
	}
}

func (ms *mediaService) UploadMealImage(ctx context.Context, externalID, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", validation("missing_image", "No image file provided")
	}
	if len(data) > MaxImageBytes {
		return "", validation("image_too_large", "File size exceeds 10MB limit. Please upload a smaller image.")
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", validation("invalid_image_type", "Invalid file type. Please upload an image file.")
	}
	if ms.store == nil {
		return "", apierr.Unavailable("storage_unavailable", "no blob store configured")
	}

	key := MealImageKey(externalID, filename, mediaType, ms.clock.Now())
	url, err := ms.store.Put(ctx, key, data, mediaType)
	if err != nil {
		ms.log.Error("Meal image upload failed", "key", key, "error", err)
		return "", apierr.Upstream("upload_failed", fmt.Errorf("failed to upload image: %w", err))
	}
	return url, nil
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
}

// MealImageKey is meals/<external id>/<unix ms>.<ext>.
func MealImageKey(externalID, filename, mediaType string, at time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = imageExtensions[mediaType]
	}
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("meals/%s/%d.%s", externalID, at.UnixMilli(), ext)
}
