package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	uploadUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/upload"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const (
	uploadFormField = "file"
	// multipart framing on top of the largest accepted file
	uploadOverhead int64 = 1 << 20
)

type UploadHandler struct {
	uploadUseCase *uploadUC.UploadAssetUseCase
	logger        logger.Logger
}

func NewUploadHandler(uc *uploadUC.UploadAssetUseCase, log logger.Logger) *UploadHandler {
	return &UploadHandler{uploadUseCase: uc, logger: log}
}

func (h *UploadHandler) UploadResume(c *gin.Context) {
	h.upload(c, uploadUC.TargetResume, uploadUC.MaxResumeSize)
}

func (h *UploadHandler) UploadProfileImage(c *gin.Context) {
	h.upload(c, uploadUC.TargetProfileImage, uploadUC.MaxImageSize)
}

func (h *UploadHandler) UploadProjectImage(c *gin.Context) {
	h.upload(c, uploadUC.TargetProjectImage, uploadUC.MaxImageSize)
}

func (h *UploadHandler) upload(c *gin.Context, target uploadUC.Target, maxSize int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+uploadOverhead)

	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.Error(apperror.NewValidation(uploadFormField, fmt.Sprintf("must be at most %d MB", maxSize>>20)))
		case errors.Is(err, http.ErrMissingFile):
			c.Error(apperror.NewInvalidInput(errMissingFile.Error(), err))
		default:
			c.Error(apperror.NewInvalidInput("invalid multipart form", err))
		}
		return
	}

	output, err := h.uploadUseCase.Execute(c.Request.Context(), uploadUC.UploadAssetInput{
		Target: target,
		File:   uploadUC.FromFileHeader(fh),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Debug("Upload completed",
		zap.String("target", string(target)),
		zap.Bool("inlined", output.Inlined),
		zap.String("correlation_id", GetCorrelationID(c)),
	)
	c.JSON(http.StatusCreated, UploadDTO{URL: output.URL, Inlined: output.Inlined})
}
