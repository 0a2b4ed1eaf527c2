package upload

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type Target string

const (
	TargetResume       Target = "resume"
	TargetProfileImage Target = "profile_image"
	TargetProjectImage Target = "project_image"
)

func (t Target) policy() Policy {
	if t == TargetResume {
		return ResumePolicy
	}
	return ImagePolicy
}

type UploadAssetUseCase struct {
	strategy    *Strategy
	gate        *Gate
	profileRepo profile.Repository
	notifier    service.ChangeNotifier
	bucket      string
	logger      logger.Logger
}

func NewUploadAssetUseCase(
	strategy *Strategy,
	gate *Gate,
	profileRepo profile.Repository,
	notifier service.ChangeNotifier,
	bucket string,
	log logger.Logger,
) *UploadAssetUseCase {
	return &UploadAssetUseCase{
		strategy:    strategy,
		gate:        gate,
		profileRepo: profileRepo,
		notifier:    notifier,
		bucket:      bucket,
		logger:      log,
	}
}

type UploadAssetInput struct {
	Target Target
	File   File
}

type UploadAssetOutput struct {
	URL     string
	Inlined bool
	// Profile is set when the upload was attached to the profile record.
	Profile *profile.Config
}

// Execute validates the file for its target, uploads it and, for resume and
// profile image uploads, stores the URL on the profile.
func (uc *UploadAssetUseCase) Execute(ctx context.Context, input UploadAssetInput) (*UploadAssetOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadAssetUseCase.Execute")
	defer span.End()

	if err := uc.gate.Check(ctx, input.Target.policy(), input.File); err != nil {
		return nil, err
	}

	res, err := uc.strategy.Upload(ctx, input.File, uc.bucket)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := &UploadAssetOutput{URL: res.URL(), Inlined: res.Kind() == Inlined}

	url := res.URL()
	var patch profile.Patch
	switch input.Target {
	case TargetResume:
		patch.ResumeURL = &url
	case TargetProfileImage:
		patch.ProfileImageURL = &url
	default:
		return out, nil
	}

	updated, err := uc.profileRepo.Update(ctx, patch)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("attach %s to profile failed: %w", input.Target, err)
	}
	out.Profile = updated

	uc.logger.Info("Profile asset updated",
		zap.String("target", string(input.Target)),
		zap.Bool("inlined", out.Inlined),
	)
	uc.notifier.ContentChanged(ctx, "profile")
	return out, nil
}
