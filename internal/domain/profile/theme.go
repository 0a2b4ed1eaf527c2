package profile

import (
	"regexp"
	"strings"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

// Theme is the four-color palette the public view is styled with.
type Theme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
}

type Preset struct {
	Name  string `json:"name"`
	Theme Theme  `json:"theme"`
}

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func DefaultTheme() Theme {
	return Theme{Primary: "#667eea", Secondary: "#764ba2", Accent: "#f093fb", Background: "#0f0f23"}
}

var presets = []Preset{
	{Name: "Default Blue", Theme: DefaultTheme()},
	{Name: "Ocean Breeze", Theme: Theme{Primary: "#00c6ff", Secondary: "#0072ff", Accent: "#40e0d0", Background: "#0a1628"}},
	{Name: "Sunset Glow", Theme: Theme{Primary: "#ff6b6b", Secondary: "#ee5a24", Accent: "#feca57", Background: "#2d1b69"}},
	{Name: "Forest Green", Theme: Theme{Primary: "#00d2d3", Secondary: "#54a0ff", Accent: "#5f27cd", Background: "#1e3799"}},
	{Name: "Purple Dream", Theme: Theme{Primary: "#a55eea", Secondary: "#8854d0", Accent: "#fd79a8", Background: "#2d3436"}},
}

func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// FindPreset looks a preset up by name, ignoring case.
func FindPreset(name string) (Theme, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p.Theme, true
		}
	}
	return Theme{}, false
}

// Theme derives the palette from the profile, filling unset colors from the default.
func (c *Config) Theme() Theme {
	def := DefaultTheme()
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	return Theme{
		Primary:    pick(c.PrimaryColor, def.Primary),
		Secondary:  pick(c.SecondaryColor, def.Secondary),
		Accent:     pick(c.AccentColor, def.Accent),
		Background: pick(c.BackgroundColor, def.Background),
	}
}

// Validate reports the first invalid color in primary, secondary, accent,
// background order.
func (t Theme) Validate() error {
	return t.Patch().ValidateColors()
}

// ValidateColors checks the colors the patch sets, in column order.
func (p Patch) ValidateColors() error {
	for _, c := range []struct {
		field string
		value *string
	}{
		{"primary_color", p.PrimaryColor},
		{"secondary_color", p.SecondaryColor},
		{"accent_color", p.AccentColor},
		{"background_color", p.BackgroundColor},
	} {
		if c.value != nil && !hexColorRegex.MatchString(*c.value) {
			return apperror.NewValidation(c.field, "must be a hex color such as #667eea")
		}
	}
	return nil
}

// Patch converts the palette into a profile update.
func (t Theme) Patch() Patch {
	return Patch{
		PrimaryColor:    &t.Primary,
		SecondaryColor:  &t.Secondary,
		AccentColor:     &t.Accent,
		BackgroundColor: &t.Background,
	}
}
