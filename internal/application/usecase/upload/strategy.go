package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
)

var tracer = otel.Tracer("upload_usecase")

const defaultContentType = "application/octet-stream"

// File is an uploaded payload that can be read more than once.
type File interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type Kind int

const (
	Stored Kind = iota + 1
	Inlined
)

func (k Kind) String() string {
	switch k {
	case Stored:
		return "stored"
	case Inlined:
		return "inlined"
	default:
		return "unknown"
	}
}

// Result records which path produced the URL. Callers only need URL().
type Result struct {
	kind Kind
	url  string
}

func (r Result) Kind() Kind     { return r.kind }
func (r Result) URL() string    { return r.url }
func (r Result) String() string { return r.url }

// Strategy uploads to the bucket store and falls back to an inline data URL
// when the store rejects or cannot be reached.
type Strategy struct {
	store  service.BlobStore
	logger logger.Logger
	now    func() time.Time
	suffix func() string
}

func NewStrategy(store service.BlobStore, log logger.Logger) *Strategy {
	return &Strategy{
		store:  store,
		logger: log,
		now:    time.Now,
		suffix: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}
}

func (s *Strategy) Upload(ctx context.Context, f File, bucket string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Strategy.Upload")
	defer span.End()

	name := s.objectName(f.Name())
	span.SetAttributes(attribute.String("upload.bucket", bucket), attribute.String("upload.object", name))

	url, storeErr := s.put(ctx, f, bucket, name)
	if storeErr == nil {
		metrics.ObserveUpload(Stored.String())
		span.SetAttributes(attribute.String("upload.path", Stored.String()))
		return Result{kind: Stored, url: url}, nil
	}

	s.logger.Warn("Bucket upload failed, inlining file",
		zap.String("bucket", bucket),
		zap.String("object", name),
		zap.Bool("storage_unavailable", errors.Is(storeErr, apperror.ErrStorageUnavailable)),
		zap.Error(storeErr),
	)

	dataURL, readErr := inline(f)
	if readErr != nil {
		err := &apperror.UploadFailed{Cause: errors.Join(storeErr, readErr)}
		metrics.ObserveUpload("failed")
		span.RecordError(err)
		return Result{}, err
	}

	metrics.ObserveUpload(Inlined.String())
	span.SetAttributes(attribute.String("upload.path", Inlined.String()))
	return Result{kind: Inlined, url: dataURL}, nil
}

// objectName builds "<unix millis>-<random>.<ext>" keeping the lower-cased extension.
func (s *Strategy) objectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), s.suffix(), ext)
}

func (s *Strategy) put(ctx context.Context, f File, bucket, name string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	return s.store.Put(ctx, bucket, name, rc, f.Size(), contentTypeOf(f))
}

func inline(f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return "data:" + contentTypeOf(f) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func contentTypeOf(f File) string {
	if ct := strings.TrimSpace(f.ContentType()); ct != "" {
		return ct
	}
	return defaultContentType
}

type headerFile struct {
	fh *multipart.FileHeader
}

// FromFileHeader adapts a multipart form file.
func FromFileHeader(fh *multipart.FileHeader) File {
	return headerFile{fh: fh}
}

func (h headerFile) Name() string                 { return h.fh.Filename }
func (h headerFile) ContentType() string          { return h.fh.Header.Get("Content-Type") }
func (h headerFile) Size() int64                  { return h.fh.Size }
func (h headerFile) Open() (io.ReadCloser, error) { return h.fh.Open() }

type bytesFile struct {
	name        string
	contentType string
	data        []byte
}

// FromBytes wraps an in-memory payload.
func FromBytes(name, contentType string, data []byte) File {
	return bytesFile{name: name, contentType: contentType, data: data}
}

func (b bytesFile) Name() string        { return b.name }
func (b bytesFile) ContentType() string { return b.contentType }
func (b bytesFile) Size() int64         { return int64(len(b.data)) }
func (b bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}
