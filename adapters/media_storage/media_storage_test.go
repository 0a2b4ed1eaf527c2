package media_storage

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitObjectName(t *testing.T) {
	tests := []struct {
		bucket, name, folder, publicID string
	}{
		{"portfolio-assets", "1700000000000-ab12cd34.pdf", "portfolio-assets", "1700000000000-ab12cd34"},
		{"portfolio-backups", "snapshots/backup-2025.json", "portfolio-backups/snapshots", "backup-2025"},
		{"assets", "noext", "assets", "noext"},
	}
	for _, tt := range tests {
		folder, publicID := splitObjectName(tt.bucket, tt.name)
		assert.Equal(t, tt.folder, folder, tt.name)
		assert.Equal(t, tt.publicID, publicID, tt.name)
	}
}

func TestPublicBaseURL(t *testing.T) {
	base, err := publicBaseURL("", "minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", base)

	base, err = publicBaseURL("", "s3.example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com", base)

	base, err = publicBaseURL("https://cdn.example.com/", "minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", base)

	_, err = publicBaseURL("not a url", "minio:9000", false)
	assert.Error(t, err)
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, isUnavailable(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))
	assert.True(t, isUnavailable(context.DeadlineExceeded))
	assert.True(t, isUnavailable(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, isUnavailable(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isUnavailable(errors.New("boom")))
}
