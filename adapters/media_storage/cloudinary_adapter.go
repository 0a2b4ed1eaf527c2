package media_storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

// NewCloudinaryAdapter maps buckets onto Cloudinary folders.
func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.BlobStore, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

func (a *cloudinaryAdapter) Put(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) (string, error) {
	folder, publicID := splitObjectName(bucket, name)
	overwrite := true
	params := uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "auto",
		Overwrite:    &overwrite,
	}

	result, err := a.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", apperror.NewStorageUnavailable(bucket, fmt.Errorf("failed to upload cloudinary: %w", err))
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected %q: %s", name, result.Error.Message)
	}

	a.logger.Debug("Uploaded to Cloudinary",
		zap.String("public_id", result.PublicID),
		zap.Int64("size", size),
		zap.String("content_type", contentType),
	)
	return result.SecureURL, nil
}

// splitObjectName turns "bucket" + "dir/file.ext" into folder "bucket/dir"
// and public id "file"; Cloudinary appends the format itself.
func splitObjectName(bucket, name string) (string, string) {
	dir, file := path.Split(name)
	folder := strings.TrimSuffix(path.Join(bucket, dir), "/")
	return folder, strings.TrimSuffix(file, path.Ext(file))
}
