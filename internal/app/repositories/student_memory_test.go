package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/yigit/schoolconnector/internal/app/models"
)

// StudentRepositorySuite checks the StudentRepository contract. Every store
// runs it; reset must return an empty store.
type StudentRepositorySuite struct {
	suite.Suite
	ctx   context.Context
	reset func() StudentRepository
	repo  StudentRepository
}

func TestMemoryStudentRepositorySuite(t *testing.T) {
	suite.Run(t, &StudentRepositorySuite{
		reset: func() StudentRepository { return NewMemoryStudentRepository() },
	})
}

func (s *StudentRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.reset()
}

func newRecord(id, templateID string) *models.StudentRecord {
	return &models.StudentRecord{
		ID:                   id,
		GivenName:            models.StringPtr("Max"),
		Surname:              models.StringPtr("Mustermann"),
		InvitationTemplateID: models.StringPtr(templateID),
	}
}

func (s *StudentRepositorySuite) TestCreateAndGet() {
	s.Require().NoError(s.repo.Create(s.ctx, newRecord("S1", "RLT1")))

	got, err := s.repo.GetByID(s.ctx, "S1")
	s.Require().NoError(err)
	s.Equal("RLT1", got.TemplateID())
	s.False(got.HasRelationship())

	s.Run("duplicate id is rejected", func() {
		err := s.repo.Create(s.ctx, newRecord("S1", "RLT2"))
		s.True(errors.Is(err, ErrStudentAlreadyExists))
	})

	s.Run("missing id is not found", func() {
		_, err := s.repo.GetByID(s.ctx, "nope")
		s.True(errors.Is(err, ErrStudentNotFound))
	})
}

func (s *StudentRepositorySuite) TestDuplicateReferences() {
	rec := newRecord("S1", "RLT1")
	rec.RelationshipID = models.StringPtr("REL1")
	s.Require().NoError(s.repo.Create(s.ctx, rec))

	err := s.repo.Create(s.ctx, newRecord("S2", "RLT1"))
	s.True(errors.Is(err, ErrDuplicateReference))
	s.False(errors.Is(err, ErrStudentAlreadyExists))

	other := newRecord("S3", "RLT3")
	s.Require().NoError(s.repo.Create(s.ctx, other))
	other.RelationshipID = models.StringPtr("REL1")
	s.True(errors.Is(s.repo.Update(s.ctx, other), ErrDuplicateReference))

	s.Run("records without references do not collide", func() {
		s.Require().NoError(s.repo.Create(s.ctx, &models.StudentRecord{ID: "S4"}))
		s.Require().NoError(s.repo.Create(s.ctx, &models.StudentRecord{ID: "S5"}))
	})
}

func (s *StudentRepositorySuite) TestReturnedRecordsAreCopies() {
	s.Require().NoError(s.repo.Create(s.ctx, newRecord("S1", "RLT1")))

	got, err := s.repo.GetByID(s.ctx, "S1")
	s.Require().NoError(err)
	*got.GivenName = "Changed"

	again, err := s.repo.GetByID(s.ctx, "S1")
	s.Require().NoError(err)
	s.Equal("Max", *again.GivenName)
}

func (s *StudentRepositorySuite) TestSecondaryLookups() {
	rec := newRecord("S1", "RLT1")
	s.Require().NoError(s.repo.Create(s.ctx, rec))
	s.Require().NoError(s.repo.Create(s.ctx, newRecord("S2", "RLT2")))

	byTemplate, err := s.repo.FindByTemplateID(s.ctx, "RLT2")
	s.Require().NoError(err)
	s.Equal("S2", byTemplate.ID)

	_, err = s.repo.FindByRelationshipID(s.ctx, "REL1")
	s.True(errors.Is(err, ErrStudentNotFound))

	rec.RelationshipID = models.StringPtr("REL1")
	s.Require().NoError(s.repo.Update(s.ctx, rec))

	byRel, err := s.repo.FindByRelationshipID(s.ctx, "REL1")
	s.Require().NoError(err)
	s.Equal("S1", byRel.ID)
}

func (s *StudentRepositorySuite) TestUpdateClearsFields() {
	rec := newRecord("S1", "RLT1")
	rec.RelationshipID = models.StringPtr("REL1")
	s.Require().NoError(s.repo.Create(s.ctx, rec))

	rec.Pseudonymize()
	s.Require().NoError(s.repo.Update(s.ctx, rec))

	got, err := s.repo.GetByID(s.ctx, "S1")
	s.Require().NoError(err)
	s.Equal(&models.StudentRecord{ID: "S1"}, got)

	_, err = s.repo.FindByTemplateID(s.ctx, "RLT1")
	s.True(errors.Is(err, ErrStudentNotFound))
}

func (s *StudentRepositorySuite) TestUpdateDeleteExists() {
	s.True(errors.Is(s.repo.Update(s.ctx, newRecord("S1", "RLT1")), ErrStudentNotFound))

	s.Require().NoError(s.repo.Create(s.ctx, newRecord("S1", "RLT1")))
	ok, err := s.repo.Exists(s.ctx, "S1")
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.repo.Delete(s.ctx, "S1"))
	ok, err = s.repo.Exists(s.ctx, "S1")
	s.Require().NoError(err)
	s.False(ok)

	s.True(errors.Is(s.repo.Delete(s.ctx, "S1"), ErrStudentNotFound))
}

func (s *StudentRepositorySuite) TestListIsOrderedByID() {
	for _, id := range []string{"S3", "S1", "S2"} {
		s.Require().NoError(s.repo.Create(s.ctx, newRecord(id, "RLT-"+id)))
	}

	list, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"S1", "S2", "S3"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestMemoryStudentRepositoryConcurrentWrites(t *testing.T) {
	repo := NewMemoryStudentRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newRecord("S1", "RLT1")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := repo.GetByID(ctx, "S1")
			if err != nil {
				return
			}
			rec.RelationshipID = models.StringPtr("REL1")
			_ = repo.Update(ctx, rec)
		}()
	}
	wg.Wait()

	rec, err := repo.GetByID(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "REL1", rec.RelID())
}
