package media_storage

import (
	"fmt"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// NewBlobStore returns the store selected by storage.provider.
func NewBlobStore(cfg config.Config, log logger.Logger) (service.BlobStore, error) {
	switch cfg.Storage.Provider {
	case config.StorageProviderMinIO:
		return NewMinIOAdapter(cfg, log)
	case config.StorageProviderCloudinary:
		return NewCloudinaryAdapter(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
