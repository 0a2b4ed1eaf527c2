package profile

import (
	"context"
	"fmt"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

const resourceName = "profile"

type ProfileUseCase struct {
	profileRepo profile.Repository
	notifier    service.ChangeNotifier
}

func NewProfileUseCase(repo profile.Repository, notifier service.ChangeNotifier) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		notifier:    notifier,
	}
}

type GetProfileOutput struct {
	Profile *profile.Config
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &GetProfileOutput{Profile: p}, nil
}

type UpdateProfileInput struct {
	Patch profile.Patch
}

type UpdateProfileOutput struct {
	Profile *profile.Config
}

// ExecuteUpdateProfile applies a partial update. The merged record must still
// pass validation, so a patch can never clear a required field.
func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	if input.Patch.IsEmpty() {
		return nil, apperror.NewInvalidInput("no profile fields to update", nil)
	}
	if err := input.Patch.ValidateColors(); err != nil {
		return nil, err
	}

	current, err := uc.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile failed: %w", err)
	}
	merged := *current
	input.Patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.profileRepo.Update(ctx, input.Patch)
	if err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	uc.notifier.ContentChanged(ctx, resourceName)
	return &UpdateProfileOutput{Profile: updated}, nil
}

type UpdateThemeInput struct {
	// Preset names one of profile.Presets; it wins over Theme when set.
	Preset string
	Theme  *profile.Theme
}

type UpdateThemeOutput struct {
	Theme   profile.Theme
	Profile *profile.Config
}

func (uc *ProfileUseCase) ExecuteUpdateTheme(ctx context.Context, input UpdateThemeInput) (*UpdateThemeOutput, error) {
	var theme profile.Theme
	switch {
	case input.Preset != "":
		preset, ok := profile.FindPreset(input.Preset)
		if !ok {
			return nil, apperror.NewValidation("preset", fmt.Sprintf("unknown theme preset %q", input.Preset))
		}
		theme = preset
	case input.Theme != nil:
		theme = *input.Theme
	default:
		return nil, apperror.NewInvalidInput("either preset or theme colors are required", nil)
	}

	if err := theme.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.profileRepo.Update(ctx, theme.Patch())
	if err != nil {
		return nil, fmt.Errorf("update theme failed: %w", err)
	}

	uc.notifier.ContentChanged(ctx, resourceName)
	return &UpdateThemeOutput{Theme: updated.Theme(), Profile: updated}, nil
}

func (uc *ProfileUseCase) ListThemePresets() []profile.Preset {
	return profile.Presets()
}
