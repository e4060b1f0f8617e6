package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/app/repositories"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/metrics"
)

// Farewell mail failure policies
const (
	MailFailurePolicyFail   = "fail"
	MailFailurePolicyIgnore = "ignore"
)

// OffboardingMailTemplate is the template sent before deleting an active student
const OffboardingMailTemplate = "offboarding"

const (
	sendMailDisabledKey     = "__App_Contact_sendMailDisabled"
	sendMailDisabledConsent = "Dieser Kontakt kann keine Nachrichten von dir erhalten."
	statusLookupConcurrency = 8
)

// ConsentInput is an additional consent requested at onboarding
type ConsentInput struct {
	MustBeAccepted  bool
	Consent         string
	Link            string
	LinkDisplayText string
}

// CreateStudentInput holds the data of a new student
type CreateStudentInput struct {
	ID                 string
	GivenName          string
	Surname            string
	Pin                string
	AdditionalConsents []ConsentInput
}

// StudentServiceConfig tunes the student service
type StudentServiceConfig struct {
	AutoMailBeforeOffboarding bool
	MailFailurePolicy         string
	// Now is used for template expiry; defaults to time.Now
	Now func() time.Time
}

// StudentService defines the student lifecycle operations
type StudentService interface {
	CreateStudent(ctx context.Context, input CreateStudentInput) (*models.StudentRecord, error)
	GetStudent(ctx context.Context, id string) (*models.StudentRecord, error)
	ListStudents(ctx context.Context) ([]*models.StudentRecord, error)
	ExistsStudent(ctx context.Context, id string) (bool, error)
	ToDTO(ctx context.Context, student *models.StudentRecord) (dto.StudentResponse, error)
	ToDTOs(ctx context.Context, students []*models.StudentRecord) ([]dto.StudentResponse, error)
	PseudonymizeStudent(ctx context.Context, id string) (*models.StudentRecord, error)
	DeleteStudent(ctx context.Context, student *models.StudentRecord) error
}

type studentServiceImpl struct {
	repo    repositories.StudentRepository
	conn    connector.Client
	mail    MailService
	school  SchoolIdentity
	cfg     StudentServiceConfig
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	repo repositories.StudentRepository,
	conn connector.Client,
	mail MailService,
	school SchoolIdentity,
	cfg StudentServiceConfig,
	m *metrics.Metrics,
) StudentService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MailFailurePolicy == "" {
		cfg.MailFailurePolicy = MailFailurePolicyFail
	}
	return &studentServiceImpl{
		repo:    repo,
		conn:    conn,
		mail:    mail,
		school:  school,
		cfg:     cfg,
		metrics: m,
		log:     logger.Component("student-service"),
	}
}

func (s *studentServiceImpl) onboardingRequest(input CreateStudentInput) connector.RequestContent {
	req := connector.RequestContent{
		Type: connector.TypeRequest,
		Items: []connector.RequestItem{
			{
				Type:        connector.TypeRequestItemGroup,
				Title:       "Bereitgestellte Kontaktdaten",
				Description: "Hier finden Sie alle Daten, die der neue Kontakt mit Ihnen teilen möchte.",
				Items: []connector.RequestItem{
					{
						Type:              connector.TypeShareAttributeRequestItem,
						Attribute:         &s.school.DisplayName.Content,
						SourceAttributeID: s.school.DisplayName.ID,
						MustBeAccepted:    connector.Bool(true),
					},
					{
						Type: connector.TypeCreateAttributeRequestItem,
						Attribute: &connector.AttributeContent{
							Type:            "RelationshipAttribute",
							Owner:           s.school.Address,
							Key:             sendMailDisabledKey,
							Confidentiality: "private",
							Value:           connector.AttributeValue{Type: "Consent", Consent: sendMailDisabledConsent},
						},
						MustBeAccepted: connector.Bool(true),
					},
				},
			},
			{
				Type:  connector.TypeRequestItemGroup,
				Title: "Geteilte Daten",
				Items: []connector.RequestItem{
					proposeAttribute("GivenName", input.GivenName),
					proposeAttribute("Surname", input.Surname),
				},
			},
		},
	}

	if len(input.AdditionalConsents) > 0 {
		group := connector.RequestItem{Type: connector.TypeRequestItemGroup, Title: "Einverständniserklärungen"}
		for _, c := range input.AdditionalConsents {
			group.Items = append(group.Items, connector.RequestItem{
				Type:            connector.TypeConsentRequestItem,
				MustBeAccepted:  connector.Bool(c.MustBeAccepted),
				Consent:         c.Consent,
				Link:            c.Link,
				LinkDisplayText: c.LinkDisplayText,
			})
		}
		req.Items = append(req.Items, group)
	}
	return req
}

func proposeAttribute(valueType, value string) connector.RequestItem {
	return connector.RequestItem{
		Type: connector.TypeProposeAttributeRequestItem,
		Attribute: &connector.AttributeContent{
			Type:  "IdentityAttribute",
			Value: connector.AttributeValue{Type: valueType, Value: value},
		},
		Query:          &connector.AttributeQuery{Type: "IdentityAttributeQuery", ValueType: valueType},
		MustBeAccepted: connector.Bool(true),
	}
}

// CreateStudent creates the onboarding template and persists the student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, input CreateStudentInput) (*models.StudentRecord, error) {
	exists, err := s.repo.Exists(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, studentExistsError(input.ID)
	}

	req := connector.CreateTemplateRequest{
		MaxNumberOfAllocations: 1,
		ExpiresAt:              s.cfg.Now().UTC().AddDate(1, 0, 0),
		Content: connector.TemplateContent{
			Type:              connector.TypeRelationshipTemplateContent,
			OnNewRelationship: s.onboardingRequest(input),
		},
	}
	if input.Pin != "" {
		req.PasswordProtection = &connector.PasswordProtection{
			Password:                  input.Pin,
			PasswordIsPin:             true,
			PasswordLocationIndicator: "Email",
		}
	}

	tpl, err := s.conn.CreateOwnTemplate(ctx, req)
	if err != nil {
		return nil, connectorError("create relationship template", err)
	}

	student := &models.StudentRecord{
		ID:                   input.ID,
		GivenName:            models.StringPtr(input.GivenName),
		Surname:              models.StringPtr(input.Surname),
		InvitationTemplateID: models.StringPtr(tpl.ID),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		// the template is unreachable without a record
		if derr := s.conn.DeleteTemplate(ctx, tpl.ID); derr != nil {
			s.log.Warn().Err(derr).Str("templateID", tpl.ID).Msg("Failed to delete orphaned template")
		}
		if errors.Is(err, repositories.ErrStudentAlreadyExists) {
			return nil, studentExistsError(input.ID)
		}
		return nil, err
	}

	s.metrics.IncrementStudentsCreated()
	s.log.Info().Str("studentID", student.ID).Str("templateID", tpl.ID).Msg("Student created")
	return student, nil
}

func studentExistsError(id string) error {
	return apperrors.NewCustomError(apperrors.ErrStudentAlreadyExists, fmt.Sprintf("The student %s already exists.", id)).
		WithCode(apperrors.CodeStudentAlreadyExists)
}

func studentNotFoundError(id string) error {
	return apperrors.NewCustomError(apperrors.ErrStudentNotFound, fmt.Sprintf("Student %s not found.", id)).
		WithCode(apperrors.CodeStudentNotFound)
}

// GetStudent retrieves a student by id
func (s *studentServiceImpl) GetStudent(ctx context.Context, id string) (*models.StudentRecord, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, studentNotFoundError(id)
		}
		return nil, err
	}
	return student, nil
}

// ListStudents retrieves all students
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.StudentRecord, error) {
	return s.repo.List(ctx)
}

// ExistsStudent reports whether a student id is taken
func (s *studentServiceImpl) ExistsStudent(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// ToDTO derives the current status from a fresh relationship lookup
func (s *studentServiceImpl) ToDTO(ctx context.Context, student *models.StudentRecord) (dto.StudentResponse, error) {
	var status *connector.RelationshipStatus
	if student.HasTemplate() && student.HasRelationship() {
		rel, err := s.conn.GetRelationship(ctx, student.RelID())
		if err != nil {
			return dto.StudentResponse{}, connectorError("get relationship", err)
		}
		status = &rel.Status
	}
	return dto.NewStudentResponse(student, DeriveStatus(student, status)), nil
}

// ToDTOs converts many students, keeping their order
func (s *studentServiceImpl) ToDTOs(ctx context.Context, students []*models.StudentRecord) ([]dto.StudentResponse, error) {
	out := make([]dto.StudentResponse, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusLookupConcurrency)
	for i, st := range students {
		i, st := i, st
		g.Go(func() error {
			d, err := s.ToDTO(gctx, st)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PseudonymizeStudent releases the connector objects of a student, then
// clears everything but the id.
func (s *studentServiceImpl) PseudonymizeStudent(ctx context.Context, id string) (*models.StudentRecord, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.releaseConnectorObjects(ctx, student); err != nil {
		return nil, err
	}

	student.Pseudonymize()
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}

	s.log.Info().Str("studentID", id).Msg("Student pseudonymized")
	return student, nil
}

// DeleteStudent tears down the relationship and the template, then removes
// the record. It is not transactional; repeating it after a failure is safe.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, student *models.StudentRecord) error {
	if err := s.releaseConnectorObjects(ctx, student); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, student.ID); err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return studentNotFoundError(student.ID)
		}
		return err
	}

	s.metrics.IncrementStudentsDeleted()
	s.log.Info().Str("studentID", student.ID).Msg("Student deleted")
	return nil
}

// releaseConnectorObjects decomposes the relationship and deletes the template
// of a student. Objects the connector no longer knows count as released.
func (s *studentServiceImpl) releaseConnectorObjects(ctx context.Context, student *models.StudentRecord) error {
	log := s.log.With().Str("studentID", student.ID).Logger()

	if student.HasRelationship() {
		if err := s.releaseRelationship(ctx, student, log); err != nil {
			return err
		}
	}

	if student.HasTemplate() {
		if err := s.conn.DeleteTemplate(ctx, student.TemplateID()); err != nil {
			if !errors.Is(err, connector.ErrNotFound) {
				return connectorError("delete relationship template", err)
			}
			log.Debug().Str("templateID", student.TemplateID()).Msg("Template already deleted")
		}
	}
	return nil
}

func (s *studentServiceImpl) releaseRelationship(ctx context.Context, student *models.StudentRecord, log zerolog.Logger) error {
	relID := student.RelID()
	rel, err := s.conn.GetRelationship(ctx, relID)
	if err != nil {
		if errors.Is(err, connector.ErrNotFound) {
			log.Debug().Str("relationshipID", relID).Msg("Relationship already decomposed")
			return nil
		}
		return connectorError("get relationship", err)
	}

	if s.cfg.AutoMailBeforeOffboarding && rel.Status == connector.RelationshipActive {
		if _, err := s.mail.SendMailFromTemplate(ctx, student, OffboardingMailTemplate, nil); err != nil {
			if s.cfg.MailFailurePolicy != MailFailurePolicyIgnore {
				return err
			}
			log.Warn().Err(err).Msg("Farewell mail failed, continuing deletion")
		}
	}

	steps := cleanupPlan(rel.Status)
	log.Debug().Str("relationshipID", relID).Strs("steps", stepNames(steps)).Msg("Cleaning up relationship")
	for _, step := range steps {
		if err := step.run(ctx, s.conn, relID); err != nil {
			if errors.Is(err, connector.ErrNotFound) {
				log.Debug().Str("relationshipID", relID).Str("step", step.name).Msg("Relationship already decomposed")
				return nil
			}
			return connectorError(step.name+" relationship", err)
		}
	}
	return nil
}
