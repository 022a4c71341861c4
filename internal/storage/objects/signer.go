package objects

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vitrine-projetos/vitrine-backend/config"
)

const DefaultURLExpiry = 15 * time.Minute

// Signer issues presigned GET URLs for attachment objects.
type Signer struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewSigner connects to the object store described by cfg. The region is set explicitly
// so presigning never has to look the bucket location up.
func NewSigner(cfg *config.StorageConfig) (*Signer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("MINIO_BUCKET is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	log.Printf("[storage] signing attachment URLs for bucket %s at %s", cfg.Bucket, cfg.Endpoint)
	return &Signer{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// SignedURL returns a presigned URL for key that downloads as filename.
func (s *Signer) SignedURL(ctx context.Context, key, filename string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}

	reqParams := make(url.Values)
	if filename != "" {
		reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}
