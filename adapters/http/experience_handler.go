package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	experienceUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/experience"
)

type ExperienceHandler struct {
	listUseCase   *experienceUC.ListExperiencesUseCase
	saveUseCase   *experienceUC.SaveExperienceUseCase
	deleteUseCase *experienceUC.DeleteExperienceUseCase
}

func NewExperienceHandler(
	listUC *experienceUC.ListExperiencesUseCase,
	saveUC *experienceUC.SaveExperienceUseCase,
	deleteUC *experienceUC.DeleteExperienceUseCase,
) *ExperienceHandler {
	return &ExperienceHandler{
		listUseCase:   listUC,
		saveUseCase:   saveUC,
		deleteUseCase: deleteUC,
	}
}

func (h *ExperienceHandler) ListExperiences(c *gin.Context) {
	output, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTOs(output.Experiences))
}

func (h *ExperienceHandler) CreateExperience(c *gin.Context) {
	h.save(c, uuid.Nil)
}

func (h *ExperienceHandler) UpdateExperience(c *gin.Context) {
	id, err := parseIDParam(c, "experience")
	if err != nil {
		c.Error(err)
		return
	}
	h.save(c, id)
}

func (h *ExperienceHandler) save(c *gin.Context, id uuid.UUID) {
	var req SaveExperienceRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.saveUseCase.Execute(c.Request.Context(), experienceUC.SaveExperienceInput{
		ID:           id,
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsCurrent:    req.IsCurrent,
		Description:  req.Description,
		Achievements: req.Achievements,
		Technologies: req.Technologies,
	})
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}
	c.JSON(status, ToExperienceDTO(output.Experience))
}

func (h *ExperienceHandler) DeleteExperience(c *gin.Context) {
	id, err := parseIDParam(c, "experience")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), experienceUC.DeleteExperienceInput{ID: id}); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
