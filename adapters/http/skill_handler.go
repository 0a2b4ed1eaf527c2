package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	skillUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/skill"
)

type SkillHandler struct {
	listUseCase    *skillUC.ListSkillsUseCase
	replaceUseCase *skillUC.ReplaceSkillsUseCase
}

func NewSkillHandler(listUC *skillUC.ListSkillsUseCase, replaceUC *skillUC.ReplaceSkillsUseCase) *SkillHandler {
	return &SkillHandler{listUseCase: listUC, replaceUseCase: replaceUC}
}

func (h *SkillHandler) ListSkills(c *gin.Context) {
	output, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSkillDTOs(output.Categories))
}

func (h *SkillHandler) ReplaceSkills(c *gin.Context) {
	var req ReplaceSkillsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	input := skillUC.ReplaceSkillsInput{Categories: make([]skillUC.CategoryInput, len(req.Categories))}
	for i, row := range req.Categories {
		input.Categories[i] = skillUC.CategoryInput{Category: row.Category, Skills: row.Skills}
	}

	output, err := h.replaceUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSkillDTOs(output.Categories))
}
