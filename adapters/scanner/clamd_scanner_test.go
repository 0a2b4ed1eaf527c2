package scanner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dutchcoders/go-clamd"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type fakeClamd struct {
	results []*clamd.ScanResult
	err     error
}

func (f *fakeClamd) ScanStream(r io.Reader, abort chan bool) (chan *clamd.ScanResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.Copy(io.Discard, r)
	ch := make(chan *clamd.ScanResult, len(f.results))
	for _, res := range f.results {
		ch <- res
	}
	close(ch)
	return ch, nil
}

func newScanner(f *fakeClamd) *clamdScanner {
	return &clamdScanner{client: f, logger: logger.NewNopLogger()}
}

func TestScanClean(t *testing.T) {
	s := newScanner(&fakeClamd{results: []*clamd.ScanResult{{Status: clamd.RES_OK}}})
	assert.NoError(t, s.Scan(context.Background(), strings.NewReader("%PDF-1.4")))
}

func TestScanInfected(t *testing.T) {
	s := newScanner(&fakeClamd{results: []*clamd.ScanResult{{Status: clamd.RES_FOUND, Description: "Eicar-Test-Signature"}}})
	err := s.Scan(context.Background(), strings.NewReader("X5O!P%@AP"))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestScanDaemonDownLetsUploadThrough(t *testing.T) {
	s := newScanner(&fakeClamd{err: errors.New("dial tcp: connection refused")})
	assert.NoError(t, s.Scan(context.Background(), strings.NewReader("data")))
}

func TestScanErrorStatusLetsUploadThrough(t *testing.T) {
	s := newScanner(&fakeClamd{results: []*clamd.ScanResult{{Status: clamd.RES_ERROR, Description: "size limit exceeded"}}})
	assert.NoError(t, s.Scan(context.Background(), strings.NewReader("data")))
}
