package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/logger/sl"
)

// Client uploads images to an S3-compatible bucket that is publicly readable
type Client interface {
	Upload(ctx context.Context, data []byte, folder, name string) (string, error)
	BaseURL() string
	EnsureBucket(ctx context.Context) error
}

type putter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type clientImpl struct {
	log     *slog.Logger
	client  putter
	bucket  string
	baseURL string
}

// NewClient creates a new S3 client. Static credentials are used when an
// access key is configured, IAM otherwise.
func NewClient(log *slog.Logger, cfg config.ObjectStoreConfig) (Client, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &clientImpl{
		log:     log,
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (c *clientImpl) BaseURL() string {
	return c.baseURL
}

func (c *clientImpl) Upload(ctx context.Context, data []byte, folder, name string) (string, error) {
	const op = "objectstore.Upload"

	objectName := path.Join(folder, name+".png")
	log := c.log.With(
		slog.String("op", op),
		slog.String("bucket", c.bucket),
		slog.String("object_name", objectName),
	)

	_, err := c.client.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if err != nil {
		log.Error("s3 upload failed", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("s3 upload succeeded", slog.Int("size", len(data)))
	return c.baseURL + "/" + objectName, nil
}

func (c *clientImpl) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", c.bucket, err)
	}
	return nil
}
