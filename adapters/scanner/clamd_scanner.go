package scanner

import (
	"context"
	"io"

	"github.com/dutchcoders/go-clamd"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type streamScanner interface {
	ScanStream(r io.Reader, abortchan chan bool) (chan *clamd.ScanResult, error)
}

type clamdScanner struct {
	client streamScanner
	logger logger.Logger
}

// NewClamdScanner returns a scanner backed by the clamd daemon at addr, for
// example "tcp://clamav:3310".
func NewClamdScanner(addr string, log logger.Logger) service.Scanner {
	return &clamdScanner{client: clamd.NewClamd(addr), logger: log}
}

// Scan rejects infected content. When the daemon cannot be reached the upload
// is let through and the failure is logged.
func (s *clamdScanner) Scan(ctx context.Context, r io.Reader) error {
	abort := make(chan bool, 1)
	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		s.logger.Warn("Malware scan unavailable, skipping", zap.Error(err))
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			abort <- true
			return ctx.Err()
		case result, ok := <-results:
			if !ok {
				return nil
			}
			switch result.Status {
			case clamd.RES_OK:
			case clamd.RES_FOUND:
				s.logger.Warn("Malicious upload rejected", zap.String("signature", result.Description))
				return apperror.NewValidation("file", "failed the malware scan")
			default:
				s.logger.Warn("Malware scan returned an error, skipping",
					zap.String("status", result.Status),
					zap.String("description", result.Description),
				)
			}
		}
	}
}
