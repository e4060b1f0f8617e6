package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/onboardingpdf"
	"github.com/yigit/schoolconnector/internal/pkg/qrcode"
)

const legacyLinkPrefix = "nmshd://tr#"

// OnboardingConfig configures links and store codes on the onboarding material
type OnboardingConfig struct {
	NewQRFormat   bool
	PlayStoreLink string
	AppStoreLink  string
	Concurrency   int
}

// OnboardingMaterial is what a student needs to connect with the school
type OnboardingMaterial struct {
	Link string
	PDF  []byte
	PNG  []byte
}

// OnboardingPDFResult is the outcome of one student in a batch
type OnboardingPDFResult struct {
	StudentID string
	PDF       []byte
	Err       error
}

// OnboardingService defines the onboarding material operations
type OnboardingService interface {
	GetLink(ctx context.Context, student *models.StudentRecord) (string, error)
	GetOnboardingMaterial(ctx context.Context, student *models.StudentRecord, settings models.PDFSettings) (*OnboardingMaterial, error)
	GetOnboardingPDFs(ctx context.Context, students []*models.StudentRecord, settings models.PDFSettings) []OnboardingPDFResult
}

type onboardingServiceImpl struct {
	conn   connector.Client
	school SchoolIdentity
	cfg    OnboardingConfig
	log    zerolog.Logger
}

// NewOnboardingService creates a new onboarding service instance
func NewOnboardingService(conn connector.Client, school SchoolIdentity, cfg OnboardingConfig) OnboardingService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &onboardingServiceImpl{
		conn:   conn,
		school: school,
		cfg:    cfg,
		log:    logger.Component("onboarding-service"),
	}
}

// GetLink returns the link encoded in the student's QR code
func (s *onboardingServiceImpl) GetLink(ctx context.Context, student *models.StudentRecord) (string, error) {
	if !student.HasTemplate() {
		return "", studentDeletedError()
	}

	tpl, err := s.conn.GetTemplate(ctx, student.TemplateID())
	if err != nil {
		return "", connectorError("get relationship template", err)
	}

	if s.cfg.NewQRFormat {
		return tpl.Reference.URL, nil
	}
	return legacyLinkPrefix + tpl.Reference.Truncated, nil
}

// GetOnboardingMaterial renders the link, QR code and PDF letter of a student
func (s *onboardingServiceImpl) GetOnboardingMaterial(ctx context.Context, student *models.StudentRecord, settings models.PDFSettings) (*OnboardingMaterial, error) {
	if !student.HasTemplate() || student.GivenName == nil || student.Surname == nil {
		return nil, studentDeletedError()
	}

	link, err := s.GetLink(ctx, student)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.PNG(link, qrcode.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	data := onboardingpdf.Data{
		SchoolName: s.school.Name(),
		GivenName:  *student.GivenName,
		Surname:    *student.Surname,
		Link:       link,
		StudentQR:  png,
		Fields:     settings.Fields,
	}
	if s.cfg.PlayStoreLink != "" {
		if data.PlayStoreQR, err = qrcode.PNG(s.cfg.PlayStoreLink, qrcode.DefaultSize); err != nil {
			return nil, fmt.Errorf("failed to render play store QR code: %w", err)
		}
	}
	if s.cfg.AppStoreLink != "" {
		if data.AppStoreQR, err = qrcode.PNG(s.cfg.AppStoreLink, qrcode.DefaultSize); err != nil {
			return nil, fmt.Errorf("failed to render app store QR code: %w", err)
		}
	}
	if settings.Logo != nil {
		data.Logo = &onboardingpdf.Logo{
			Bytes:     settings.Logo.Bytes,
			X:         settings.Logo.X,
			Y:         settings.Logo.Y,
			MaxWidth:  settings.Logo.MaxWidth,
			MaxHeight: settings.Logo.MaxHeight,
		}
	}

	pdf, err := onboardingpdf.Render(data)
	if err != nil {
		switch {
		case errors.Is(err, onboardingpdf.ErrNotEncodable):
			return nil, apperrors.NewTemplateError(apperrors.CodeOnboardingPDFNotUTF8Compatible,
				"The onboarding PDF contains characters that cannot be printed with the PDF font.")
		case errors.Is(err, onboardingpdf.ErrInvalidLogo):
			return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, err.Error()).
				WithCode(apperrors.CodeInvalidLogo)
		}
		return nil, fmt.Errorf("failed to render onboarding PDF: %w", err)
	}

	return &OnboardingMaterial{Link: link, PDF: pdf, PNG: png}, nil
}

// GetOnboardingPDFs renders one PDF per student. A failing student does not
// affect the others; results keep the order of students.
func (s *onboardingServiceImpl) GetOnboardingPDFs(ctx context.Context, students []*models.StudentRecord, settings models.PDFSettings) []OnboardingPDFResult {
	results := make([]OnboardingPDFResult, len(students))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, st := range students {
		i, st := i, st
		g.Go(func() error {
			results[i].StudentID = st.ID
			material, err := s.GetOnboardingMaterial(ctx, st, settings)
			if err != nil {
				s.log.Warn().Err(err).Str("studentID", st.ID).Msg("Onboarding PDF failed")
				results[i].Err = err
				return nil
			}
			results[i].PDF = material.PDF
			return nil
		})
	}
	_ = g.Wait()

	return results
}
