package repositories

import (
	"context"
	"errors"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
)

// Student error types
var (
	// ErrStudentNotFound is returned when no record matches the lookup.
	ErrStudentNotFound = apperrors.ErrStudentNotFound
	// ErrStudentAlreadyExists is returned when a record with the same id exists.
	ErrStudentAlreadyExists = apperrors.ErrStudentAlreadyExists
	// ErrDuplicateReference is returned when another record already holds the
	// template or relationship id.
	ErrDuplicateReference = errors.New("student reference already in use")
)

//go:generate mockgen -source=student_repository.go -destination=mocks/student_repository_mock.go -package=mocks StudentRepository

// StudentRepository is the keyed student store. Updates are last-write-wins.
type StudentRepository interface {
	Create(ctx context.Context, student *models.StudentRecord) error
	GetByID(ctx context.Context, id string) (*models.StudentRecord, error)
	List(ctx context.Context) ([]*models.StudentRecord, error)
	FindByTemplateID(ctx context.Context, templateID string) (*models.StudentRecord, error)
	FindByRelationshipID(ctx context.Context, relationshipID string) (*models.StudentRecord, error)
	Update(ctx context.Context, student *models.StudentRecord) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

func cloneStudent(s *models.StudentRecord) *models.StudentRecord {
	if s == nil {
		return nil
	}
	c := &models.StudentRecord{ID: s.ID}
	c.GivenName = cloneString(s.GivenName)
	c.Surname = cloneString(s.Surname)
	c.InvitationTemplateID = cloneString(s.InvitationTemplateID)
	c.RelationshipID = cloneString(s.RelationshipID)
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
