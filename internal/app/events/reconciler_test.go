package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/app/repositories"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/connector/mocks"
	"github.com/yigit/schoolconnector/internal/pkg/filestorage"
)

type reconcilerFixture struct {
	conn       *mocks.MockClient
	repo       *repositories.MemoryStudentRepository
	students   services.StudentService
	reconciler *Reconciler
}

func newReconcilerFixture(t *testing.T) *reconcilerFixture {
	assets, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f := &reconcilerFixture{
		conn: mocks.NewMockClient(gomock.NewController(t)),
		repo: repositories.NewMemoryStudentRepository(),
	}
	school := services.SchoolIdentity{Address: "did:e:school"}
	f.students = services.NewStudentService(f.repo, f.conn, services.NewMailService(f.conn, assets), school, services.StudentServiceConfig{}, nil)
	f.reconciler = NewReconciler(f.repo, f.conn, f.students, time.Millisecond, nil)
	return f
}

func TestRequestAutoCompletedAcceptsOnce(t *testing.T) {
	f := newReconcilerFixture(t)
	ctx := context.Background()

	f.conn.EXPECT().CreateOwnTemplate(gomock.Any(), gomock.Any()).Return(connector.RelationshipTemplate{ID: "RLT1"}, nil)
	created, err := f.students.CreateStudent(ctx, services.CreateStudentInput{ID: "S1", GivenName: "Max", Surname: "Mustermann"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnboarding, services.DeriveStatus(created, nil))

	f.conn.EXPECT().AcceptRelationship(gomock.Any(), "REL1").Return(connector.Relationship{ID: "REL1", Status: connector.RelationshipActive}, nil).Times(1)
	f.conn.EXPECT().GetRelationship(gomock.Any(), "REL1").Return(connector.Relationship{ID: "REL1", Status: connector.RelationshipActive}, nil)

	ev := RequestAutoCompletedEvent{TemplateID: "RLT1", RelationshipID: "REL1"}
	require.NoError(t, f.reconciler.Handle(ctx, ev))
	require.NoError(t, f.reconciler.Handle(ctx, ev))

	stored, err := f.repo.GetByID(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "REL1", stored.RelID())
	assert.Equal(t, "RLT1", stored.TemplateID())
}

func TestRequestAutoCompletedRetriesFailedAccept(t *testing.T) {
	f := newReconcilerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repo.Create(ctx, &models.StudentRecord{ID: "S1", InvitationTemplateID: models.StringPtr("RLT1")}))

	gomock.InOrder(
		f.conn.EXPECT().AcceptRelationship(gomock.Any(), "REL1").Return(connector.Relationship{}, connector.ErrUnavailable),
		f.conn.EXPECT().GetRelationship(gomock.Any(), "REL1").Return(connector.Relationship{ID: "REL1", Status: connector.RelationshipPending}, nil),
		f.conn.EXPECT().AcceptRelationship(gomock.Any(), "REL1").Return(connector.Relationship{ID: "REL1", Status: connector.RelationshipActive}, nil),
	)

	ev := RequestAutoCompletedEvent{TemplateID: "RLT1", RelationshipID: "REL1"}
	require.ErrorIs(t, f.reconciler.Handle(ctx, ev), connector.ErrUnavailable)
	require.NoError(t, f.reconciler.Handle(ctx, ev))

	stored, err := f.repo.GetByID(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "REL1", stored.RelID())
}

func TestDeletionProposedAfterPeerDecomposed(t *testing.T) {
	f := newReconcilerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repo.Create(ctx, &models.StudentRecord{
		ID:                   "S1",
		InvitationTemplateID: models.StringPtr("RLT1"),
		RelationshipID:       models.StringPtr("REL1"),
	}))

	decomposed := &connector.APIError{Status: 404, Code: "error.runtime.recordNotFound"}
	f.conn.EXPECT().GetRelationship(gomock.Any(), "REL1").Return(connector.Relationship{}, decomposed)
	f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLT1").Return(nil)
	f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "REL1").Return(decomposed)

	require.NoError(t, f.reconciler.Handle(ctx, RelationshipChangedEvent{RelationshipID: "REL1", Status: connector.RelationshipDeletionProposed}))

	_, err := f.repo.GetByID(ctx, "S1")
	assert.ErrorIs(t, err, repositories.ErrStudentNotFound)
}

func TestRequestAutoCompletedForUnknownTemplateIsIgnored(t *testing.T) {
	f := newReconcilerFixture(t)

	require.NoError(t, f.reconciler.Handle(context.Background(), RequestAutoCompletedEvent{TemplateID: "RLTother", RelationshipID: "REL1"}))
}

func TestRequestAutoCompletedConflictingRelationship(t *testing.T) {
	f := newReconcilerFixture(t)
	require.NoError(t, f.repo.Create(context.Background(), &models.StudentRecord{
		ID:                   "S1",
		InvitationTemplateID: models.StringPtr("RLT1"),
		RelationshipID:       models.StringPtr("REL1"),
	}))

	err := f.reconciler.Handle(context.Background(), RequestAutoCompletedEvent{TemplateID: "RLT1", RelationshipID: "REL2"})
	require.Error(t, err)

	stored, err := f.repo.GetByID(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "REL1", stored.RelID())
}

func TestDeletionProposedTwiceIsIdempotent(t *testing.T) {
	f := newReconcilerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repo.Create(ctx, &models.StudentRecord{
		ID:                   "S1",
		GivenName:            models.StringPtr("Max"),
		Surname:              models.StringPtr("Mustermann"),
		InvitationTemplateID: models.StringPtr("RLT1"),
		RelationshipID:       models.StringPtr("REL1"),
	}))

	decomposed := &connector.APIError{Status: 404, Code: "error.runtime.recordNotFound"}
	calls := 0
	f.conn.EXPECT().GetRelationship(gomock.Any(), "REL1").Return(connector.Relationship{ID: "REL1", Status: connector.RelationshipDeletionProposed}, nil)
	f.conn.EXPECT().DeleteTemplate(gomock.Any(), "RLT1").Return(nil)
	f.conn.EXPECT().DecomposeRelationship(gomock.Any(), "REL1").
		DoAndReturn(func(context.Context, string) error {
			calls++
			if calls == 1 {
				return nil
			}
			return decomposed
		}).Times(3)

	ev := RelationshipChangedEvent{RelationshipID: "REL1", Status: connector.RelationshipDeletionProposed}
	require.NoError(t, f.reconciler.Handle(ctx, ev))
	require.NoError(t, f.reconciler.Handle(ctx, ev))

	_, err := f.repo.FindByRelationshipID(ctx, "REL1")
	assert.ErrorIs(t, err, repositories.ErrStudentNotFound)
	assert.Equal(t, 3, calls)
}

func TestOtherRelationshipChangesAreIgnored(t *testing.T) {
	f := newReconcilerFixture(t)

	for _, st := range []connector.RelationshipStatus{
		connector.RelationshipPending,
		connector.RelationshipActive,
		connector.RelationshipTerminated,
	} {
		require.NoError(t, f.reconciler.Handle(context.Background(), RelationshipChangedEvent{RelationshipID: "REL1", Status: st}))
	}
}

func TestSettleDelayHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}

type recordingHandler struct {
	events []Event
}

func (h *recordingHandler) Handle(_ context.Context, ev Event) error {
	h.events = append(h.events, ev)
	return nil
}

func TestRedisSubscriberDispatch(t *testing.T) {
	h := &recordingHandler{}
	s := NewRedisSubscriber(nil, "connector-events", h)

	s.dispatch(context.Background(), `{"trigger":"transport.relationshipChanged","data":{"id":"REL1","status":"Active"}}`)
	s.dispatch(context.Background(), `{"trigger":"transport.messageReceived","data":{}}`)
	s.dispatch(context.Background(), `not json`)

	require.Len(t, h.events, 1)
	assert.Equal(t, RelationshipChangedEvent{RelationshipID: "REL1", Status: connector.RelationshipActive}, h.events[0])
	assert.NoError(t, s.Stop())
}
