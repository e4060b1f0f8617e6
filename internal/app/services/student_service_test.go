package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/app/repositories"
	repomocks "github.com/yigit/schoolconnector/internal/app/repositories/mocks"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/connector/mocks"
)

var fixedNow = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

type fakeMailService struct {
	MailService
	templates []string
	err       error
}

func (f *fakeMailService) SendMailFromTemplate(_ context.Context, _ *models.StudentRecord, name string, _ map[string]interface{}) (connector.Message, error) {
	f.templates = append(f.templates, name)
	return connector.Message{}, f.err
}

type studentFixture struct {
	conn *mocks.MockClient
	repo *repositories.MemoryStudentRepository
	mail *fakeMailService
	svc  StudentService
}

func newStudentFixture(t *testing.T, cfg StudentServiceConfig) *studentFixture {
	ctrl := gomock.NewController(t)
	f := &studentFixture{
		conn: mocks.NewMockClient(ctrl),
		repo: repositories.NewMemoryStudentRepository(),
		mail: &fakeMailService{},
	}
	cfg.Now = func() time.Time { return fixedNow }
	f.svc = NewStudentService(f.repo, f.conn, f.mail, testSchool, cfg, nil)
	return f
}

func (f *studentFixture) seed(t *testing.T, student *models.StudentRecord) {
	require.NoError(t, f.repo.Create(context.Background(), student))
}

func TestCreateStudentBuildsOnboardingTemplate(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})

	var captured connector.CreateTemplateRequest
	f.conn.EXPECT().CreateOwnTemplate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req connector.CreateTemplateRequest) (connector.RelationshipTemplate, error) {
			captured = req
			return connector.RelationshipTemplate{ID: "RLT1"}, nil
		})

	student, err := f.svc.CreateStudent(context.Background(), CreateStudentInput{
		ID:        "S1",
		GivenName: "Max",
		Surname:   "Mustermann",
		Pin:       "1234",
		AdditionalConsents: []ConsentInput{
			{Consent: "Fotos dürfen veröffentlicht werden", Link: "https://example.org/fotos", LinkDisplayText: "Details"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "RLT1", student.TemplateID())
	assert.False(t, student.HasRelationship())

	assert.Equal(t, 1, captured.MaxNumberOfAllocations)
	assert.Equal(t, fixedNow.AddDate(1, 0, 0), captured.ExpiresAt)
	require.NotNil(t, captured.PasswordProtection)
	assert.Equal(t, "1234", captured.PasswordProtection.Password)
	assert.True(t, captured.PasswordProtection.PasswordIsPin)
	assert.Equal(t, connector.TypeRelationshipTemplateContent, captured.Content.Type)

	groups := captured.Content.OnNewRelationship.Items
	require.Len(t, groups, 3)

	shared := groups[0].Items
	require.Len(t, shared, 2)
	assert.Equal(t, connector.TypeShareAttributeRequestItem, shared[0].Type)
	assert.Equal(t, "ATTdisplayname", shared[0].SourceAttributeID)
	assert.Equal(t, sendMailDisabledKey, shared[1].Attribute.Key)
	assert.Equal(t, "did:e:school", shared[1].Attribute.Owner)

	proposed := groups[1].Items
	require.Len(t, proposed, 2)
	assert.Equal(t, "GivenName", proposed[0].Query.ValueType)
	assert.Equal(t, "Max", proposed[0].Attribute.Value.Value)
	assert.Equal(t, "Mustermann", proposed[1].Attribute.Value.Value)

	consents := groups[2].Items
	require.Len(t, consents, 1)
	assert.Equal(t, connector.TypeConsentRequestItem, consents[0].Type)
	assert.False(t, *consents[0].MustBeAccepted)
	assert.Equal(t, "Details", consents[0].LinkDisplayText)

	stored, err := f.repo.GetByID(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, student, stored)
}

func TestCreateStudentWithoutPinOrConsents(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})

	f.conn.EXPECT().CreateOwnTemplate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req connector.CreateTemplateRequest) (connector.RelationshipTemplate, error) {
			assert.Nil(t, req.PasswordProtection)
			assert.Len(t, req.Content.OnNewRelationship.Items, 2)
			return connector.RelationshipTemplate{ID: "RLT1"}, nil
		})

	_, err := f.svc.CreateStudent(context.Background(), CreateStudentInput{ID: "S1", GivenName: "Max", Surname: "Mustermann"})
	require.NoError(t, err)
}

func TestCreateStudentRejectsDuplicateID(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})
	f.seed(t, onboardedStudent("S1"))

	_, err := f.svc.CreateStudent(context.Background(), CreateStudentInput{ID: "S1", GivenName: "Max", Surname: "Mustermann"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStudentAlreadyExists))
	assert.Equal(t, apperrors.CodeStudentAlreadyExists, apperrors.CodeOf(err))
}

func TestCreateStudentConnectorFailureStoresNothing(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})
	f.conn.EXPECT().CreateOwnTemplate(gomock.Any(), gomock.Any()).Return(connector.RelationshipTemplate{}, connector.ErrUnavailable)

	_, err := f.svc.CreateStudent(context.Background(), CreateStudentInput{ID: "S1", GivenName: "Max", Surname: "Mustermann"})
	require.Error(t, err)

	exists, err := f.repo.Exists(context.Background(), "S1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetStudentNotFound(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})

	_, err := f.svc.GetStudent(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStudentNotFound))
}

func TestToDTOsDeriveStatusInOrder(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})

	onboarding := &models.StudentRecord{ID: "S1", InvitationTemplateID: models.StringPtr("RLT1")}
	active := onboardedStudent("S2")
	rejected := onboardedStudent("S3")
	deleted := &models.StudentRecord{ID: "S4"}

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS2").Return(connector.Relationship{Status: connector.RelationshipActive}, nil)
	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS3").Return(connector.Relationship{Status: connector.RelationshipRevoked}, nil)

	out, err := f.svc.ToDTOs(context.Background(), []*models.StudentRecord{onboarding, active, rejected, deleted})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "S1", out[0].ID)
	assert.Equal(t, models.StatusOnboarding, out[0].Status)
	assert.Equal(t, models.StatusActive, out[1].Status)
	assert.Equal(t, models.StatusRejected, out[2].Status)
	assert.Equal(t, models.StatusDeleted, out[3].Status)
}

func TestPseudonymizeStudentReleasesConnectorObjects(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})
	f.seed(t, onboardedStudent("S1"))

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipActive}, nil)
	gomock.InOrder(
		f.conn.EXPECT().TerminateRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, nil),
		f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "RELS1").Return(nil),
		f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLTS1").Return(nil),
	)

	student, err := f.svc.PseudonymizeStudent(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, &models.StudentRecord{ID: "S1"}, student)

	stored, err := f.repo.GetByID(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, DeriveStatus(stored, nil))

	// nothing is left on the connector, so deletion only drops the record
	require.NoError(t, f.svc.DeleteStudent(context.Background(), stored))
	exists, err := f.repo.Exists(context.Background(), "S1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPseudonymizeStudentKeepsRecordWhenCleanupFails(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})
	f.seed(t, onboardedStudent("S1"))

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, connector.ErrUnavailable)

	_, err := f.svc.PseudonymizeStudent(context.Background(), "S1")
	require.Error(t, err)

	stored, err := f.repo.GetByID(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "RELS1", stored.RelID())
	assert.Equal(t, "Max", models.StringValue(stored.GivenName))
}

func TestCleanupPlan(t *testing.T) {
	tests := []struct {
		status connector.RelationshipStatus
		want   []string
	}{
		{connector.RelationshipPending, []string{"reject", "decompose"}},
		{connector.RelationshipActive, []string{"terminate", "decompose"}},
		{connector.RelationshipRejected, []string{"decompose"}},
		{connector.RelationshipRevoked, []string{"decompose"}},
		{connector.RelationshipTerminated, []string{"decompose"}},
		{connector.RelationshipDeletionProposed, []string{"decompose"}},
		{connector.RelationshipStatus("Unknown"), []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, stepNames(cleanupPlan(tt.status)))
		})
	}
}

func TestDeleteStudentPendingRelationship(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{AutoMailBeforeOffboarding: true})
	student := onboardedStudent("S1")
	f.seed(t, student)

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipPending}, nil)
	gomock.InOrder(
		f.conn.EXPECT().RejectRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, nil),
		f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "RELS1").Return(nil),
		f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLTS1").Return(nil),
	)

	require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
	assert.Empty(t, f.mail.templates)

	exists, err := f.repo.Exists(context.Background(), "S1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteStudentActiveSendsFarewellMailOnce(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{AutoMailBeforeOffboarding: true})
	student := onboardedStudent("S1")
	f.seed(t, student)

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipActive}, nil)
	gomock.InOrder(
		f.conn.EXPECT().TerminateRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, nil),
		f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "RELS1").Return(nil),
		f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLTS1").Return(nil),
	)

	require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
	assert.Equal(t, []string{OffboardingMailTemplate}, f.mail.templates)
}

func TestDeleteStudentFarewellMailFailure(t *testing.T) {
	t.Run("fail policy aborts before cleanup", func(t *testing.T) {
		f := newStudentFixture(t, StudentServiceConfig{AutoMailBeforeOffboarding: true, MailFailurePolicy: MailFailurePolicyFail})
		f.mail.err = apperrors.NewTemplateError(apperrors.CodeTemplateNotFound, "missing")
		student := onboardedStudent("S1")
		f.seed(t, student)

		f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipActive}, nil)

		err := f.svc.DeleteStudent(context.Background(), student)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrTemplate))

		exists, err := f.repo.Exists(context.Background(), "S1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ignore policy continues", func(t *testing.T) {
		f := newStudentFixture(t, StudentServiceConfig{AutoMailBeforeOffboarding: true, MailFailurePolicy: MailFailurePolicyIgnore})
		f.mail.err = errors.New("boom")
		student := onboardedStudent("S1")
		f.seed(t, student)

		f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipActive}, nil)
		f.conn.EXPECT().TerminateRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, nil)
		f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "RELS1").Return(nil)
		f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLTS1").Return(nil)

		require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
	})
}

func TestDeleteStudentWithoutRelationship(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{AutoMailBeforeOffboarding: true})
	student := &models.StudentRecord{ID: "S1", InvitationTemplateID: models.StringPtr("RLT1")}
	f.seed(t, student)

	f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLT1").Return(nil)

	require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
}

func TestDeleteStudentTerminalRelationshipOnlyDecomposes(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{AutoMailBeforeOffboarding: true})
	student := onboardedStudent("S1")
	f.seed(t, student)

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipTerminated}, nil)
	f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "RELS1").Return(nil)
	f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLTS1").Return(nil)

	require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
	assert.Empty(t, f.mail.templates)
}

func TestDeleteStudentToleratesDecomposedRelationship(t *testing.T) {
	tests := []struct {
		name   string
		expect func(conn *mocks.MockClient)
	}{
		{
			name: "relationship lookup not found",
			expect: func(conn *mocks.MockClient) {
				conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, connector.ErrNotFound)
			},
		},
		{
			name: "decompose not found",
			expect: func(conn *mocks.MockClient) {
				conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipDeletionProposed}, nil)
				conn.EXPECT().DecomposeRelationship(gomock.Any(), "RELS1").Return(connector.ErrNotFound)
			},
		},
		{
			name: "reject not found",
			expect: func(conn *mocks.MockClient) {
				conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipPending}, nil)
				conn.EXPECT().RejectRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, connector.ErrNotFound)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStudentFixture(t, StudentServiceConfig{})
			student := onboardedStudent("S1")
			f.seed(t, student)

			tt.expect(f.conn)
			f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLTS1").Return(nil)

			require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
			exists, err := f.repo.Exists(context.Background(), "S1")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestDeleteStudentToleratesDeletedTemplate(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})
	student := &models.StudentRecord{ID: "S1", InvitationTemplateID: models.StringPtr("RLT1")}
	f.seed(t, student)

	f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLT1").Return(connector.ErrNotFound)

	require.NoError(t, f.svc.DeleteStudent(context.Background(), student))
}

func TestDeleteStudentConnectorFailureKeepsRecord(t *testing.T) {
	f := newStudentFixture(t, StudentServiceConfig{})
	student := onboardedStudent("S1")
	f.seed(t, student)

	f.conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{Status: connector.RelationshipActive}, nil)
	f.conn.EXPECT().TerminateRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{}, connector.ErrUnavailable)

	err := f.svc.DeleteStudent(context.Background(), student)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExternalService))

	exists, err := f.repo.Exists(context.Background(), "S1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateStudentStoreFailures(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		wantErr   error
	}{
		{"concurrent create", repositories.ErrStudentAlreadyExists, apperrors.ErrStudentAlreadyExists},
		{"store unavailable", errors.New("connection reset"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			conn := mocks.NewMockClient(ctrl)
			repo := repomocks.NewMockStudentRepository(ctrl)
			svc := NewStudentService(repo, conn, &fakeMailService{}, testSchool, StudentServiceConfig{}, nil)

			gomock.InOrder(
				repo.EXPECT().Exists(gomock.Any(), "S1").Return(false, nil),
				conn.EXPECT().CreateOwnTemplate(gomock.Any(), gomock.Any()).Return(connector.RelationshipTemplate{ID: "RLT1"}, nil),
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(tt.createErr),
				conn.EXPECT().DeleteTemplate(gomock.Any(), "RLT1").Return(nil),
			)

			_, err := svc.CreateStudent(context.Background(), CreateStudentInput{ID: "S1", GivenName: "Max", Surname: "Muster"})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, tt.createErr)
			}
		})
	}
}

func TestCreateStudentExistsLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockStudentRepository(ctrl)
	svc := NewStudentService(repo, mocks.NewMockClient(ctrl), &fakeMailService{}, testSchool, StudentServiceConfig{}, nil)

	repo.EXPECT().Exists(gomock.Any(), "S1").Return(false, errors.New("timeout"))

	_, err := svc.CreateStudent(context.Background(), CreateStudentInput{ID: "S1", GivenName: "Max", Surname: "Muster"})
	assert.EqualError(t, err, "timeout")
}
