package upload

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

const (
	MaxResumeSize int64 = 10 << 20
	MaxImageSize  int64 = 5 << 20
)

// Policy is a form-side gate on what a given upload field accepts.
type Policy struct {
	Field     string
	MaxSize   int64
	Accepts   string
	allowMIME func(mediaType string) bool
}

var (
	ResumePolicy = Policy{
		Field:     "resume",
		MaxSize:   MaxResumeSize,
		Accepts:   "a PDF document",
		allowMIME: func(mt string) bool { return mt == "application/pdf" },
	}
	ImagePolicy = Policy{
		Field:     "image",
		MaxSize:   MaxImageSize,
		Accepts:   "an image",
		allowMIME: func(mt string) bool { return strings.HasPrefix(mt, "image/") },
	}
)

// Check validates size, the declared content type and the sniffed content type.
func (p Policy) Check(f File) error {
	if f.Size() <= 0 {
		return apperror.NewValidation(p.Field, "file is empty")
	}
	if f.Size() > p.MaxSize {
		return apperror.NewValidation(p.Field, fmt.Sprintf("must be at most %d MB", p.MaxSize>>20))
	}

	declared := mediaType(f.ContentType())
	if !p.allowMIME(declared) {
		return apperror.NewValidation(p.Field, "must be "+p.Accepts)
	}

	rc, err := f.Open()
	if err != nil {
		return apperror.NewValidation(p.Field, "could not be read")
	}
	defer rc.Close()

	detected, err := mimetype.DetectReader(rc)
	if err != nil {
		return apperror.NewValidation(p.Field, "could not be read")
	}
	if !p.allowMIME(mediaType(detected.String())) {
		return apperror.NewValidation(p.Field, fmt.Sprintf("content is %s, must be %s", detected.String(), p.Accepts))
	}
	return nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// Gate runs the policy and, when configured, the malware scanner.
type Gate struct {
	scanner service.Scanner
}

func NewGate(scanner service.Scanner) *Gate {
	return &Gate{scanner: scanner}
}

func (g *Gate) Check(ctx context.Context, p Policy, f File) error {
	if err := p.Check(f); err != nil {
		return err
	}
	if g == nil || g.scanner == nil {
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return apperror.NewValidation(p.Field, "could not be read")
	}
	defer rc.Close()
	return g.scanner.Scan(ctx, rc)
}
