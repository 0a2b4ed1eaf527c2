package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), profileUC.UpdateProfileInput{
		Patch: req.ToPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) ListThemePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.profileUseCase.ListThemePresets()})
}

func (h *ProfileHandler) UpdateTheme(c *gin.Context) {
	var req UpdateThemeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteUpdateTheme(c.Request.Context(), profileUC.UpdateThemeInput{
		Preset: req.Preset,
		Theme:  req.Colors,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ThemeDTO{Theme: output.Theme})
}
