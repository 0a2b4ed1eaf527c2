package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase       *authUC.LoginUseCase
	logoutUseCase      *authUC.LogoutUseCase
	currentUserUseCase *authUC.CurrentUserUseCase
}

func NewAuthHandler(
	loginUC *authUC.LoginUseCase,
	logoutUC *authUC.LogoutUseCase,
	currentUserUC *authUC.CurrentUserUseCase,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:       loginUC,
		logoutUseCase:      logoutUC,
		currentUserUseCase: currentUserUC,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToSessionDTO(output.Session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := GetClaimsFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("claims not found in context"))
		return
	}

	input := authUC.LogoutInput{TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		input.ExpiresAt = claims.ExpiresAt.Time
	}
	if err := h.logoutUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	u, err := h.currentUserUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToUserDTO(u))
}
