package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/user"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
)

type Handlers struct {
	Portfolio  *PortfolioHandler
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Experience *ExperienceHandler
	Project    *ProjectHandler
	Skill      *SkillHandler
	Upload     *UploadHandler
}

type RouterConfig struct {
	JWT      *auth.JWTService
	Sessions user.SessionStore
	Logger   logger.Logger
	// Metrics adds the Prometheus request middleware.
	Metrics bool
	// TrustedProxies lists proxy addresses or CIDRs whose forwarding headers
	// are honored by ClientIP. Empty means only the socket address counts.
	TrustedProxies []string
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		cfg.Logger.Warn("Invalid trusted proxies, ignoring forwarding headers", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), CorrelationIDMiddleware(), RequestLogger(cfg.Logger))
	if cfg.Metrics {
		router.Use(metrics.GinMiddleware())
	}
	router.Use(ErrorMiddleware(cfg.Logger))

	authMiddleware := AuthMiddleware(cfg.JWT, cfg.Sessions, cfg.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		public := api.Group("/portfolio")
		{
			public.GET("", h.Portfolio.GetPortfolio)
			public.GET("/theme", h.Portfolio.GetTheme)
			public.GET("/projects.rss", h.Portfolio.ProjectsRSS)
			public.POST("/focus", h.Portfolio.Focus)
		}

		admin := api.Group("/admin")
		{
			adminAuth := admin.Group("/auth")
			adminAuth.POST("/login", h.Auth.Login)

			adminPrivate := admin.Group("")
			adminPrivate.Use(authMiddleware)
			{
				adminPrivate.POST("/auth/logout", h.Auth.Logout)
				adminPrivate.GET("/auth/me", h.Auth.Me)

				adminPrivate.POST("/refresh", h.Portfolio.Refresh)

				adminPrivate.GET("/profile", h.Profile.GetProfile)
				adminPrivate.PUT("/profile", h.Profile.UpdateProfile)
				adminPrivate.POST("/profile/resume", h.Upload.UploadResume)
				adminPrivate.POST("/profile/image", h.Upload.UploadProfileImage)

				adminPrivate.GET("/theme/presets", h.Profile.ListThemePresets)
				adminPrivate.PUT("/theme", h.Profile.UpdateTheme)

				experiences := adminPrivate.Group("/experiences")
				{
					experiences.GET("", h.Experience.ListExperiences)
					experiences.POST("", h.Experience.CreateExperience)
					experiences.PUT("/:id", h.Experience.UpdateExperience)
					experiences.DELETE("/:id", h.Experience.DeleteExperience)
				}

				projects := adminPrivate.Group("/projects")
				{
					projects.GET("", h.Project.ListProjects)
					projects.POST("", h.Project.CreateProject)
					projects.POST("/image", h.Upload.UploadProjectImage)
					projects.PUT("/:id", h.Project.UpdateProject)
					projects.DELETE("/:id", h.Project.DeleteProject)
				}

				adminPrivate.GET("/skills", h.Skill.ListSkills)
				adminPrivate.PUT("/skills", h.Skill.ReplaceSkills)
			}
		}
	}

	return router
}
