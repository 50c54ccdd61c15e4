package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// S3 — приёмник артефакта в бакете MinIO/S3.
type S3 struct {
	client *mclient.Client
	bucket string
	object string
}

// NewS3 создает клиент MinIO.
// Убирает схему из endpoint, подбирает Secure по схеме
// и выполняет fail-fast-проверку наличия бакета.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	const op = "artifact/s3/NewS3"

	if cfg.Bucket == "" || cfg.Object == "" {
		return nil, fmt.Errorf("%s: empty bucket or object", op)
	}

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.RootUser, cfg.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &S3{client: client, bucket: cfg.Bucket, object: strings.TrimPrefix(cfg.Object, "/")}, nil
}

func (s *S3) Publish(ctx context.Context, warnings models.WarningsByCountry) error {
	const op = "artifact/s3/Publish"

	raw, err := Encode(warnings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	info, err := s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(raw), int64(len(raw)),
		mclient.PutObjectOptions{ContentType: ContentType},
	)
	if err != nil {
		return fmt.Errorf("%s: put object: %w", op, err)
	}

	log.From(ctx).Info("artifact_uploaded",
		slog.String("op", op),
		slog.String("bucket", s.bucket),
		slog.String("object", s.object),
		slog.Int64("bytes", info.Size),
	)

	return nil
}

var _ Publisher = (*S3)(nil)
