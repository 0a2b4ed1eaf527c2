package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

func ptr(s string) *string { return &s }

func TestDefaultConfigIsRenderable(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Name)
	assert.NotEmpty(t, cfg.Title)
	assert.NotEmpty(t, cfg.Email)
	assert.Equal(t, DefaultTheme(), cfg.Theme())
}

func TestPatchColumnsAndApply(t *testing.T) {
	patch := Patch{Name: ptr("Ada"), ResumeURL: ptr("https://cdn.example.com/cv.pdf")}

	assert.Equal(t, map[string]any{"name": "Ada", "resume_url": "https://cdn.example.com/cv.pdf"}, patch.Columns())
	assert.False(t, patch.IsEmpty())
	assert.True(t, Patch{}.IsEmpty())

	cfg := DefaultConfig()
	title := cfg.Title
	patch.Apply(&cfg)
	assert.Equal(t, "Ada", cfg.Name)
	assert.Equal(t, "https://cdn.example.com/cv.pdf", cfg.ResumeURL)
	assert.Equal(t, title, cfg.Title)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"missing name", func(c *Config) { c.Name = "  " }, "name"},
		{"missing title", func(c *Config) { c.Title = "" }, "title"},
		{"missing email", func(c *Config) { c.Email = "" }, "email"},
		{"malformed email", func(c *Config) { c.Email = "not an email" }, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)

			err := cfg.Validate()
			var vErr *apperror.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestStoredColorDoesNotBlockProfileValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AccentColor = "pink"

	assert.NoError(t, cfg.Validate())
}

func TestThemeValidateReportsFirstInvalidColorInOrder(t *testing.T) {
	theme := Theme{Primary: "red", Secondary: "#0072ff", Accent: "pink", Background: "navy"}

	for i := 0; i < 20; i++ {
		var vErr *apperror.ValidationError
		require.ErrorAs(t, theme.Validate(), &vErr)
		assert.Equal(t, "primary_color", vErr.Field)
	}

	theme.Primary = "#00c6ff"
	var vErr *apperror.ValidationError
	require.ErrorAs(t, theme.Validate(), &vErr)
	assert.Equal(t, "accent_color", vErr.Field)
}

func TestPatchValidateColorsOnlyChecksSetFields(t *testing.T) {
	assert.NoError(t, Patch{Name: ptr("Ada")}.ValidateColors())
	assert.NoError(t, Patch{PrimaryColor: ptr("#abc")}.ValidateColors())

	var vErr *apperror.ValidationError
	require.ErrorAs(t, Patch{Name: ptr("Ada"), BackgroundColor: ptr("black")}.ValidateColors(), &vErr)
	assert.Equal(t, "background_color", vErr.Field)
}

func TestThemeFallsBackPerColor(t *testing.T) {
	cfg := Config{PrimaryColor: "#111111"}

	theme := cfg.Theme()
	assert.Equal(t, "#111111", theme.Primary)
	assert.Equal(t, DefaultTheme().Background, theme.Background)
}

func TestPresets(t *testing.T) {
	theme, ok := FindPreset("ocean breeze")
	require.True(t, ok)
	assert.Equal(t, "#0072ff", theme.Secondary)

	_, ok = FindPreset("Neon")
	assert.False(t, ok)

	for _, p := range Presets() {
		assert.NoError(t, p.Theme.Validate(), p.Name)
	}

	patch := theme.Patch()
	assert.Equal(t, "#00c6ff", *patch.PrimaryColor)
	assert.Len(t, patch.Columns(), 4)
}
