package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoahotran/portfolio-cms/internal/testutil"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type unreadableFile struct{}

func (unreadableFile) Name() string        { return "gone.PNG" }
func (unreadableFile) ContentType() string { return "image/png" }
func (unreadableFile) Size() int64         { return 10 }
func (unreadableFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("file handle closed")
}

func fixedStrategy(store *testutil.BlobStore, log logger.Logger) *Strategy {
	s := NewStrategy(store, log)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	s.suffix = func() string { return "abcd1234" }
	return s
}

func TestUploadStoresInBucket(t *testing.T) {
	store := testutil.NewBlobStore()
	s := fixedStrategy(store, logger.NewNopLogger())

	res, err := s.Upload(context.Background(), FromBytes("Resume.PDF", "application/pdf", []byte("%PDF-1.4 body")), "portfolio-assets")
	require.NoError(t, err)

	assert.Equal(t, Stored, res.Kind())
	assert.Equal(t, "https://cdn.example.com/portfolio-assets/1700000000123-abcd1234.pdf", res.URL())
	stored, ok := store.Object("portfolio-assets", "1700000000123-abcd1234.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.4 body"), stored)
}

func TestUploadFallsBackToDataURL(t *testing.T) {
	for name, storeErr := range map[string]error{
		"storage unavailable": apperror.NewStorageUnavailable("portfolio-assets", errors.New("dial tcp: connection refused")),
		"rejected":            errors.New("access denied"),
	} {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			store := testutil.NewBlobStore()
			store.Fail(storeErr)
			s := NewStrategy(store, logger.NewFromZap(zap.New(core)))
			payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0x10}

			res, err := s.Upload(context.Background(), FromBytes("avatar.png", "image/png", payload), "portfolio-assets")
			require.NoError(t, err)

			assert.Equal(t, Inlined, res.Kind())
			prefix := "data:image/png;base64,"
			require.True(t, strings.HasPrefix(res.URL(), prefix))
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(res.URL(), prefix))
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
			assert.Equal(t, 1, logs.FilterMessage("Bucket upload failed, inlining file").Len())
			assert.Empty(t, store.Keys())
		})
	}
}

func TestUploadWithoutContentTypeUsesOctetStream(t *testing.T) {
	store := testutil.NewBlobStore()
	store.Fail(testutil.ErrInjected)
	s := NewStrategy(store, logger.NewNopLogger())

	res, err := s.Upload(context.Background(), FromBytes("blob", "", []byte("x")), "b")
	require.NoError(t, err)
	assert.Equal(t, "data:application/octet-stream;base64,eA==", res.URL())
}

func TestUploadFailsWhenBothPathsFail(t *testing.T) {
	store := testutil.NewBlobStore()
	store.Fail(testutil.ErrInjected)
	s := NewStrategy(store, logger.NewNopLogger())

	_, err := s.Upload(context.Background(), unreadableFile{}, "portfolio-assets")

	var failed *apperror.UploadFailed
	require.ErrorAs(t, err, &failed)
	assert.ErrorIs(t, err, apperror.ErrUploadFailed)
	assert.Contains(t, err.Error(), "file handle closed")
}

func TestObjectNameKeepsLowerCasedExtension(t *testing.T) {
	s := fixedStrategy(testutil.NewBlobStore(), logger.NewNopLogger())

	assert.Equal(t, "1700000000123-abcd1234.jpeg", s.objectName("Photo.Final.JPEG"))
	assert.Equal(t, "1700000000123-abcd1234", s.objectName("README"))
}

func TestObjectNamesDoNotCollide(t *testing.T) {
	s := NewStrategy(testutil.NewBlobStore(), logger.NewNopLogger())
	s.now = func() time.Time { return time.UnixMilli(42) }

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := s.objectName("a.png")
		assert.False(t, seen[name], name)
		seen[name] = true
	}
}
