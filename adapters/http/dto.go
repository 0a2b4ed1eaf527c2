package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	portfolioUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/portfolio"
	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/internal/domain/user"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

const maxJSONBody = 1 << 20

// bindStrictJSON decodes the body rejecting unknown fields and trailing data,
// then runs the binding validators.
func bindStrictJSON(c *gin.Context, obj any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody+1))
	if err != nil {
		return apperror.NewInvalidInput("could not read request body", err)
	}
	if len(body) > maxJSONBody {
		return apperror.NewInvalidInput("request body is too large", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return apperror.NewInvalidInput(fmt.Sprintf("invalid JSON body: %v", err), err)
	}
	if dec.More() {
		return apperror.NewInvalidInput("invalid JSON body: unexpected data after object", nil)
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return apperror.NewInvalidInput(err.Error(), err)
	}
	return nil
}

func parseIDParam(c *gin.Context, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NewInvalidInput(fmt.Sprintf("invalid %s ID", resource), err)
	}
	return id, nil
}

// Auth DTOs

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  *string   `json:"name"`
}

type SessionDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

func ToSessionDTO(s *user.Session) SessionDTO {
	return SessionDTO{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt,
		User:        ToUserDTO(s.User),
	}
}

// Profile DTOs

type UpdateProfileRequest struct {
	Name                *string `json:"name"`
	Title               *string `json:"title"`
	Subtitle            *string `json:"subtitle"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Location            *string `json:"location"`
	LinkedinURL         *string `json:"linkedin_url"`
	GithubURL           *string `json:"github_url"`
	AboutText           *string `json:"about_text"`
	EducationDegree     *string `json:"education_degree"`
	EducationUniversity *string `json:"education_university"`
	EducationDuration   *string `json:"education_duration"`
	EducationGPA        *string `json:"education_gpa"`
	StatsTransactions   *string `json:"stats_transactions"`
	StatsUptime         *string `json:"stats_uptime"`
	StatsReduction      *string `json:"stats_reduction"`
	StatsExperience     *string `json:"stats_experience"`
	ResumeURL           *string `json:"resume_url"`
	ProfileImageURL     *string `json:"profile_image_url"`
}

func (r *UpdateProfileRequest) ToPatch() profile.Patch {
	return profile.Patch{
		Name:                r.Name,
		Title:               r.Title,
		Subtitle:            r.Subtitle,
		Email:               r.Email,
		Phone:               r.Phone,
		Location:            r.Location,
		LinkedinURL:         r.LinkedinURL,
		GithubURL:           r.GithubURL,
		AboutText:           r.AboutText,
		EducationDegree:     r.EducationDegree,
		EducationUniversity: r.EducationUniversity,
		EducationDuration:   r.EducationDuration,
		EducationGPA:        r.EducationGPA,
		StatsTransactions:   r.StatsTransactions,
		StatsUptime:         r.StatsUptime,
		StatsReduction:      r.StatsReduction,
		StatsExperience:     r.StatsExperience,
		ResumeURL:           r.ResumeURL,
		ProfileImageURL:     r.ProfileImageURL,
	}
}

type UpdateThemeRequest struct {
	Preset string         `json:"preset"`
	Colors *profile.Theme `json:"colors"`
}

type ThemeDTO struct {
	Theme profile.Theme `json:"theme"`
}

// Experience DTOs

// SaveExperienceRequest carries the form fields as typed: achievements one per
// line and technologies comma separated.
type SaveExperienceRequest struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company" binding:"required"`
	Location     string `json:"location"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
	Description  string `json:"description"`
	Achievements string `json:"achievements"`
	Technologies string `json:"technologies"`
}

type ExperienceDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	IsCurrent    bool      `json:"is_current"`
	Description  string    `json:"description"`
	Achievements []string  `json:"achievements"`
	Technologies []string  `json:"technologies"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func ToExperienceDTO(e *experience.Experience) ExperienceDTO {
	dto := ExperienceDTO{
		ID:           e.ID,
		Title:        e.Title,
		Company:      e.Company,
		Location:     e.Location,
		StartDate:    e.StartDate.Format(dateLayout),
		IsCurrent:    e.IsCurrent,
		Description:  e.Description,
		Achievements: e.Achievements,
		Technologies: e.Technologies,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.EndDate != nil {
		end := e.EndDate.Format(dateLayout)
		dto.EndDate = &end
	}
	return dto
}

func ToExperienceDTOs(items []*experience.Experience) []ExperienceDTO {
	out := make([]ExperienceDTO, len(items))
	for i, e := range items {
		out[i] = ToExperienceDTO(e)
	}
	return out
}

// Project DTOs

type SaveProjectRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Features     string  `json:"features"`
	Technologies string  `json:"technologies"`
	ImageURL     *string `json:"image_url"`
	GithubURL    *string `json:"github_url"`
	LiveURL      *string `json:"live_url"`
	IsFeatured   bool    `json:"is_featured"`
}

type ProjectDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Features     []string  `json:"features"`
	Technologies []string  `json:"technologies"`
	ImageURL     *string   `json:"image_url"`
	GithubURL    *string   `json:"github_url"`
	LiveURL      *string   `json:"live_url"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToProjectDTO(p *project.Project) ProjectDTO {
	return ProjectDTO{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Features:     p.Features,
		Technologies: p.Technologies,
		ImageURL:     p.ImageURL,
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		IsFeatured:   p.IsFeatured,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToProjectDTOs(items []*project.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(items))
	for i, p := range items {
		out[i] = ToProjectDTO(p)
	}
	return out
}

// Skill DTOs

type SkillCategoryRequest struct {
	Category string `json:"category"`
	Skills   string `json:"skills"`
}

type ReplaceSkillsRequest struct {
	Categories []SkillCategoryRequest `json:"categories" binding:"dive"`
}

type SkillCategoryDTO struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Skills   []string  `json:"skills"`
}

func ToSkillDTOs(items []skill.Category) []SkillCategoryDTO {
	out := make([]SkillCategoryDTO, len(items))
	for i, c := range items {
		out[i] = SkillCategoryDTO{ID: c.ID, Category: c.Category, Skills: c.Skills}
	}
	return out
}

// Portfolio DTOs

type PortfolioDTO struct {
	Profile     profile.Config     `json:"profile"`
	Theme       profile.Theme      `json:"theme"`
	Experiences []ExperienceDTO    `json:"experiences"`
	Projects    []ProjectDTO       `json:"projects"`
	Skills      []SkillCategoryDTO `json:"skills"`
	Fallbacks   []string           `json:"fallbacks"`
	ChangeToken string             `json:"change_token"`
	LoadedAt    time.Time          `json:"loaded_at"`
}

func ToPortfolioDTO(s *portfolioUC.Snapshot) PortfolioDTO {
	return PortfolioDTO{
		Profile:     s.Profile,
		Theme:       s.Theme,
		Experiences: ToExperienceDTOs(s.Experiences),
		Projects:    ToProjectDTOs(s.Projects),
		Skills:      ToSkillDTOs(s.Skills),
		Fallbacks:   fallbackNames(s),
		ChangeToken: s.ChangeToken(),
		LoadedAt:    s.LoadedAt,
	}
}

func fallbackNames(s *portfolioUC.Snapshot) []string {
	out := make([]string, len(s.Failed))
	for i, r := range s.Failed {
		out[i] = string(r)
	}
	return out
}

type RefreshDTO struct {
	ChangeToken string    `json:"change_token"`
	Fallbacks   []string  `json:"fallbacks"`
	LoadedAt    time.Time `json:"loaded_at"`
	Error       string    `json:"error,omitempty"`
}

// Upload DTOs

type UploadDTO struct {
	URL     string `json:"url"`
	Inlined bool   `json:"inlined"`
}

var errMissingFile = errors.New("multipart field \"file\" is required")
