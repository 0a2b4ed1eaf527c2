package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/application/usecase/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const folder = "snapshots"

// SnapshotLoader produces a fresh portfolio snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context) *portfolio.Snapshot
}

type BackupUseCase struct {
	loader SnapshotLoader
	store  service.BlobStore
	bucket string
	logger logger.Logger
	now    func() time.Time
}

func NewBackupUseCase(loader SnapshotLoader, store service.BlobStore, bucket string, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		loader: loader,
		store:  store,
		bucket: bucket,
		logger: log,
		now:    time.Now,
	}
}

type BackupOutput struct {
	URL         string
	ChangeToken string
	// Skipped is set when a resource fell back to defaults and nothing was written.
	Skipped bool
}

// Execute writes the current portfolio content as a JSON document to the
// backup bucket. Snapshots holding fallback data are not exported.
func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	uc.logger.Info("Starting portfolio snapshot backup...")

	snap := uc.loader.Load(ctx)
	if len(snap.Failed) > 0 {
		uc.logger.Warn("Skipping backup, snapshot has fallbacks", zap.Any("failed", snap.Failed))
		return &BackupOutput{ChangeToken: snap.ChangeToken(), Skipped: true}, nil
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	timestamp := uc.now().UTC().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s/backup-%s-%s.json", folder, timestamp, snap.ChangeToken())

	url, err := uc.store.Put(ctx, uc.bucket, name, bytes.NewReader(body), int64(len(body)), "application/json")
	if err != nil {
		uc.logger.Error("Failed to upload snapshot backup", err, zap.String("bucket", uc.bucket))
		return nil, fmt.Errorf("upload backup: %w", err)
	}

	uc.logger.Info("Portfolio backup completed and uploaded successfully",
		zap.String("url", url),
		zap.String("object", name),
	)
	return &BackupOutput{URL: url, ChangeToken: snap.ChangeToken()}, nil
}
