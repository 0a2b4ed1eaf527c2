package portfolio

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
)

type Resource string

const (
	ResourceProfile     Resource = "profile"
	ResourceExperiences Resource = "experiences"
	ResourceProjects    Resource = "projects"
	ResourceSkills      Resource = "skills"
)

// Snapshot is one load cycle's view of the portfolio. It is never modified
// after it has been published, so readers must not mutate its slices.
type Snapshot struct {
	Profile     profile.Config           `json:"profile"`
	Experiences []*experience.Experience `json:"experiences"`
	Projects    []*project.Project       `json:"projects"`
	Skills      []skill.Category         `json:"skills"`
	Theme       profile.Theme            `json:"theme"`
	Failed      []Resource               `json:"failed,omitempty"`
	LoadedAt    time.Time                `json:"loaded_at"`

	changeToken string
}

// ChangeToken identifies the snapshot content. Two loads that fetched the same
// data share a token, so it works as an ETag and as a re-render key.
func (s *Snapshot) ChangeToken() string {
	return s.changeToken
}

// HasFallback reports whether r was substituted by its fallback value.
func (s *Snapshot) HasFallback(r Resource) bool {
	for _, f := range s.Failed {
		if f == r {
			return true
		}
	}
	return false
}

func (s *Snapshot) seal() {
	content := struct {
		Profile     profile.Config           `json:"profile"`
		Experiences []*experience.Experience `json:"experiences"`
		Projects    []*project.Project       `json:"projects"`
		Skills      []skill.Category         `json:"skills"`
	}{s.Profile, s.Experiences, s.Projects, s.Skills}

	b, err := json.Marshal(content)
	if err != nil {
		// Unreachable for these types; fall back to a token that still changes per load.
		s.changeToken = strconv.FormatInt(s.LoadedAt.UnixNano(), 36)
		return
	}
	s.changeToken = strconv.FormatUint(xxhash.Sum64(b), 16)
}
