package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	projectUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/project"
)

type ProjectHandler struct {
	listUseCase   *projectUC.ListProjectsUseCase
	saveUseCase   *projectUC.SaveProjectUseCase
	deleteUseCase *projectUC.DeleteProjectUseCase
}

func NewProjectHandler(
	listUC *projectUC.ListProjectsUseCase,
	saveUC *projectUC.SaveProjectUseCase,
	deleteUC *projectUC.DeleteProjectUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		listUseCase:   listUC,
		saveUseCase:   saveUC,
		deleteUseCase: deleteUC,
	}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	output, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTOs(output.Projects))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	h.save(c, uuid.Nil)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parseIDParam(c, "project")
	if err != nil {
		c.Error(err)
		return
	}
	h.save(c, id)
}

func (h *ProjectHandler) save(c *gin.Context, id uuid.UUID) {
	var req SaveProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.saveUseCase.Execute(c.Request.Context(), projectUC.SaveProjectInput{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Features:     req.Features,
		Technologies: req.Technologies,
		ImageURL:     req.ImageURL,
		GithubURL:    req.GithubURL,
		LiveURL:      req.LiveURL,
		IsFeatured:   req.IsFeatured,
	})
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}
	c.JSON(status, ToProjectDTO(output.Project))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parseIDParam(c, "project")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), projectUC.DeleteProjectInput{ProjectID: id}); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
