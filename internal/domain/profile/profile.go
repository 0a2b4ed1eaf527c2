package profile

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

// SingletonID is the primary key of the only profile row.
const SingletonID = 1

// Config is the singleton profile record rendered in the header, about and
// contact sections. UpdatedAt doubles as the change token for re-renders.
type Config struct {
	Name                string    `json:"name"`
	Title               string    `json:"title"`
	Subtitle            string    `json:"subtitle"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Location            string    `json:"location"`
	LinkedinURL         string    `json:"linkedin_url"`
	GithubURL           string    `json:"github_url"`
	AboutText           string    `json:"about_text"`
	EducationDegree     string    `json:"education_degree"`
	EducationUniversity string    `json:"education_university"`
	EducationDuration   string    `json:"education_duration"`
	EducationGPA        string    `json:"education_gpa"`
	StatsTransactions   string    `json:"stats_transactions"`
	StatsUptime         string    `json:"stats_uptime"`
	StatsReduction      string    `json:"stats_reduction"`
	StatsExperience     string    `json:"stats_experience"`
	ResumeURL           string    `json:"resume_url"`
	ProfileImageURL     string    `json:"profile_image_url"`
	PrimaryColor        string    `json:"primary_color"`
	SecondaryColor      string    `json:"secondary_color"`
	AccentColor         string    `json:"accent_color"`
	BackgroundColor     string    `json:"background_color"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name                *string
	Title               *string
	Subtitle            *string
	Email               *string
	Phone               *string
	Location            *string
	LinkedinURL         *string
	GithubURL           *string
	AboutText           *string
	EducationDegree     *string
	EducationUniversity *string
	EducationDuration   *string
	EducationGPA        *string
	StatsTransactions   *string
	StatsUptime         *string
	StatsReduction      *string
	StatsExperience     *string
	ResumeURL           *string
	ProfileImageURL     *string
	PrimaryColor        *string
	SecondaryColor      *string
	AccentColor         *string
	BackgroundColor     *string
}

// Columns returns the column/value pairs set by the patch.
func (p Patch) Columns() map[string]any {
	cols := make(map[string]any)
	set := func(column string, v *string) {
		if v != nil {
			cols[column] = *v
		}
	}
	set("name", p.Name)
	set("title", p.Title)
	set("subtitle", p.Subtitle)
	set("email", p.Email)
	set("phone", p.Phone)
	set("location", p.Location)
	set("linkedin_url", p.LinkedinURL)
	set("github_url", p.GithubURL)
	set("about_text", p.AboutText)
	set("education_degree", p.EducationDegree)
	set("education_university", p.EducationUniversity)
	set("education_duration", p.EducationDuration)
	set("education_gpa", p.EducationGPA)
	set("stats_transactions", p.StatsTransactions)
	set("stats_uptime", p.StatsUptime)
	set("stats_reduction", p.StatsReduction)
	set("stats_experience", p.StatsExperience)
	set("resume_url", p.ResumeURL)
	set("profile_image_url", p.ProfileImageURL)
	set("primary_color", p.PrimaryColor)
	set("secondary_color", p.SecondaryColor)
	set("accent_color", p.AccentColor)
	set("background_color", p.BackgroundColor)
	return cols
}

// Apply copies the set fields of p onto c.
func (p Patch) Apply(c *Config) {
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&c.Name, p.Name)
	apply(&c.Title, p.Title)
	apply(&c.Subtitle, p.Subtitle)
	apply(&c.Email, p.Email)
	apply(&c.Phone, p.Phone)
	apply(&c.Location, p.Location)
	apply(&c.LinkedinURL, p.LinkedinURL)
	apply(&c.GithubURL, p.GithubURL)
	apply(&c.AboutText, p.AboutText)
	apply(&c.EducationDegree, p.EducationDegree)
	apply(&c.EducationUniversity, p.EducationUniversity)
	apply(&c.EducationDuration, p.EducationDuration)
	apply(&c.EducationGPA, p.EducationGPA)
	apply(&c.StatsTransactions, p.StatsTransactions)
	apply(&c.StatsUptime, p.StatsUptime)
	apply(&c.StatsReduction, p.StatsReduction)
	apply(&c.StatsExperience, p.StatsExperience)
	apply(&c.ResumeURL, p.ResumeURL)
	apply(&c.ProfileImageURL, p.ProfileImageURL)
	apply(&c.PrimaryColor, p.PrimaryColor)
	apply(&c.SecondaryColor, p.SecondaryColor)
	apply(&c.AccentColor, p.AccentColor)
	apply(&c.BackgroundColor, p.BackgroundColor)
}

func (p Patch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

var emailRegex = regexp.MustCompile(`^\S+@\S+$`)

// Validate checks the fields every profile must carry. Colors are checked
// per patch with Patch.ValidateColors, so a stored color never blocks an
// unrelated edit.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name", "is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return apperror.NewValidation("title", "is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return apperror.NewValidation("email", "is required")
	}
	if !emailRegex.MatchString(c.Email) {
		return apperror.NewValidation("email", "is not a valid address")
	}
	return nil
}

// DefaultConfig is rendered whenever the stored profile cannot be loaded.
func DefaultConfig() Config {
	theme := DefaultTheme()
	return Config{
		Name:              "Portfolio Owner",
		Title:             "Backend Developer",
		Subtitle:          "Building reliable services, APIs and cloud deployments",
		Email:             "hello@example.com",
		Phone:             "+00 000 000 0000",
		Location:          "Remote",
		LinkedinURL:       "https://www.linkedin.com/",
		GithubURL:         "https://github.com/",
		AboutText:         "Profile details are temporarily unavailable.",
		StatsTransactions: "1M+",
		StatsUptime:       "99.9%",
		StatsReduction:    "40%",
		StatsExperience:   "2+",
		PrimaryColor:      theme.Primary,
		SecondaryColor:    theme.Secondary,
		AccentColor:       theme.Accent,
		BackgroundColor:   theme.Background,
	}
}

type Repository interface {
	Get(ctx context.Context) (*Config, error)
	Update(ctx context.Context, patch Patch) (*Config, error)
}
