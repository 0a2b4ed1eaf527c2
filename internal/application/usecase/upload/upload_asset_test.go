package upload

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/testutil"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type UploadAssetTestSuite struct {
	suite.Suite
	store    *testutil.BlobStore
	profiles *testutil.ProfileRepo
	notifier *testutil.Notifier
	uc       *UploadAssetUseCase
}

func TestUploadAsset(t *testing.T) {
	suite.Run(t, new(UploadAssetTestSuite))
}

func (s *UploadAssetTestSuite) SetupTest() {
	cfg := profile.DefaultConfig()
	s.store = testutil.NewBlobStore()
	s.profiles = testutil.NewProfileRepo(&cfg)
	s.notifier = &testutil.Notifier{}
	log := logger.NewNopLogger()
	s.uc = NewUploadAssetUseCase(NewStrategy(s.store, log), NewGate(nil), s.profiles, s.notifier, "portfolio-assets", log)
}

func (s *UploadAssetTestSuite) TestResumeUploadUpdatesProfile() {
	out, err := s.uc.Execute(context.Background(), UploadAssetInput{
		Target: TargetResume,
		File:   FromBytes("CV.pdf", "application/pdf", pdfBytes),
	})
	s.Require().NoError(err)

	s.False(out.Inlined)
	s.True(strings.HasPrefix(out.URL, "https://cdn.example.com/portfolio-assets/"))
	s.Require().NotNil(out.Profile)
	s.Equal(out.URL, out.Profile.ResumeURL)
	s.Equal([]string{"profile"}, s.notifier.Resources())
}

func (s *UploadAssetTestSuite) TestProfileImageFallsBackWhenStoreDown() {
	s.store.Fail(apperror.NewStorageUnavailable("portfolio-assets", testutil.ErrInjected))

	out, err := s.uc.Execute(context.Background(), UploadAssetInput{
		Target: TargetProfileImage,
		File:   FromBytes("me.png", "image/png", pngBytes),
	})
	s.Require().NoError(err)

	s.True(out.Inlined)
	s.True(strings.HasPrefix(out.Profile.ProfileImageURL, "data:image/png;base64,"))
}

func (s *UploadAssetTestSuite) TestProjectImageDoesNotTouchProfile() {
	out, err := s.uc.Execute(context.Background(), UploadAssetInput{
		Target: TargetProjectImage,
		File:   FromBytes("shot.png", "image/png", pngBytes),
	})
	s.Require().NoError(err)

	s.Nil(out.Profile)
	s.NotEmpty(out.URL)
	s.Empty(s.notifier.Resources())
}

func (s *UploadAssetTestSuite) TestRejectedFileIsNotUploaded() {
	_, err := s.uc.Execute(context.Background(), UploadAssetInput{
		Target: TargetResume,
		File:   FromBytes("cv.png", "image/png", pngBytes),
	})

	s.ErrorIs(err, apperror.ErrInvalidInput)
	s.Empty(s.store.Keys())
	s.Empty(s.notifier.Resources())
}

func (s *UploadAssetTestSuite) TestProfileUpdateFailurePropagates() {
	s.profiles.Fail(testutil.ErrInjected)

	_, err := s.uc.Execute(context.Background(), UploadAssetInput{
		Target: TargetResume,
		File:   FromBytes("cv.pdf", "application/pdf", pdfBytes),
	})

	s.ErrorIs(err, apperror.ErrRemote)
	s.Empty(s.notifier.Resources())
}
