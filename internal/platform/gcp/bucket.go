package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type Config struct {
	Bucket        string
	Credentials   string
	EmulatorHost  string
	PublicBaseURL string
}

// BucketService stores meal photos in a single GCS bucket.
type BucketService interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	emulatorHost  string
	publicBaseURL string
}

func NewBucketService(ctx context.Context, log *logger.Logger, cfg Config) (BucketService, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("gcs bucket name is required")
	}
	publicBase, err := normalizeBaseURL(cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	emulator, err := normalizeBaseURL(cfg.EmulatorHost)
	if err != nil {
		return nil, fmt.Errorf("emulator host: %w", err)
	}

	var opts []option.ClientOption
	if emulator != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulator)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(ClientOptions(cfg.Credentials), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog := log.With("service", "BucketService")
	serviceLog.Info("Object storage initialized",
		"bucket", cfg.Bucket,
		"emulator_host", emulator,
		"public_base_url", publicBase,
	)
	return &bucketService{
		log:           serviceLog,
		client:        client,
		bucket:        cfg.Bucket,
		emulatorHost:  emulator,
		publicBaseURL: publicBase,
	}, nil
}

func (bs *bucketService) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = cleanKey(key)
	if key == "" {
		return "", errors.New("object key is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.client.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = contentTypeForKey(key)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	bs.log.Debug("Object uploaded", "key", key, "bytes", len(data))
	return bs.PublicURL(key), nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	key = cleanKey(key)
	if err := bs.client.Bucket(bs.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.bucket, err)
	}
	return nil
}

func (bs *bucketService) PublicURL(key string) string {
	return publicURL(bs.bucket, bs.publicBaseURL, bs.emulatorHost, key)
}

func publicURL(bucket, publicBase, emulator, key string) string {
	key = cleanKey(key)
	if publicBase != "" {
		return fmt.Sprintf("%s/%s", publicBase, key)
	}
	if emulator != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", emulator, url.PathEscape(bucket), url.PathEscape(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q; expected absolute URL like https://cdn.example.com", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".heic"):
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}
