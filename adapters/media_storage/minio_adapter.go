package media_storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`

type minioAdapter struct {
	client     *minio.Client
	publicBase string
	region     string
	logger     logger.Logger
	ensured    sync.Map
}

func NewMinIOAdapter(cfg config.Config, log logger.Logger) (service.BlobStore, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint has not config")
	}

	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	publicBase, err := publicBaseURL(cfg.MinIO.PublicEndpoint, cfg.MinIO.Endpoint, cfg.MinIO.UseSSL)
	if err != nil {
		return nil, err
	}

	log.Info("MinIO client initialised", zap.String("endpoint", cfg.MinIO.Endpoint))
	return &minioAdapter{
		client:     client,
		publicBase: publicBase,
		region:     cfg.MinIO.Region,
		logger:     log,
	}, nil
}

func publicBaseURL(public, endpoint string, useSSL bool) (string, error) {
	if public == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		return scheme + "://" + endpoint, nil
	}
	u, err := url.Parse(public)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid minio public endpoint %q", public)
	}
	return strings.TrimRight(public, "/"), nil
}

// Put stores the object and returns its public URL. Connection failures and a
// missing bucket surface as apperror.ErrStorageUnavailable.
func (a *minioAdapter) Put(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) (string, error) {
	if err := a.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}

	_, err := a.client.PutObject(ctx, bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		if isUnavailable(err) {
			a.ensured.Delete(bucket)
			return "", apperror.NewStorageUnavailable(bucket, err)
		}
		return "", fmt.Errorf("put object %q: %w", name, err)
	}
	return a.publicBase + "/" + bucket + "/" + name, nil
}

func (a *minioAdapter) ensureBucket(ctx context.Context, bucket string) error {
	if _, ok := a.ensured.Load(bucket); ok {
		return nil
	}

	exists, err := a.client.BucketExists(ctx, bucket)
	if err != nil {
		return apperror.NewStorageUnavailable(bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			return apperror.NewStorageUnavailable(bucket, fmt.Errorf("make bucket: %w", err))
		}
		if err := a.client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
			a.logger.Warn("Failed to set public read policy", zap.String("bucket", bucket), zap.Error(err))
		}
		a.logger.Info("Created storage bucket", zap.String("bucket", bucket))
	}
	a.ensured.Store(bucket, struct{}{})
	return nil
}

func isUnavailable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket", "ServiceUnavailable", "SlowDown", "XMinioServerNotInitialized":
		return true
	}
	return false
}
