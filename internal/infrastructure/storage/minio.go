package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pitchboard-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// AssetResolver biến image reference lưu trong DB thành URL public
//   - "https://..." / "http://...": giữ nguyên
//   - "/default-avatar.png": path tương đối của frontend, giữ nguyên
//   - "pitches/uuid/cover.jpg": object key trong bucket MinIO
type AssetResolver struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewAssetResolver khởi tạo MinIO client
// minio.New không mở kết nối, chỉ build client
func NewAssetResolver(cfg config.MinIOConfig) (*AssetResolver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		// Format: http://localhost:9000/pitches
		base = fmt.Sprintf("%s/%s", strings.TrimRight(client.EndpointURL().String(), "/"), cfg.Bucket)
	}

	return &AssetResolver{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: base,
	}, nil
}

// ResolveURL implements model.AssetResolver
func (r *AssetResolver) ResolveURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "/") {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return ref
	}
	return fmt.Sprintf("%s/%s", r.publicURL, strings.TrimLeft(ref, "/"))
}

// HealthCheck kiểm tra bucket có tồn tại không
func (r *AssetResolver) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", r.bucket)
	}

	log.Debug().Str("bucket", r.bucket).Msg("[MINIO] bucket reachable")
	return nil
}
