package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/connector/mocks"
)

var auditBase = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return auditBase.Add(time.Duration(minutes) * time.Minute)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func expectFullHistory(conn *mocks.MockClient) {
	pending := connector.RelationshipPending
	conn.EXPECT().GetTemplate(gomock.Any(), "RLTS1").Return(connector.RelationshipTemplate{ID: "RLTS1", CreatedAt: at(0)}, nil)
	conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{
		ID:           "RELS1",
		Peer:         "did:e:peer",
		PeerIdentity: connector.PeerIdentity{Address: "did:e:peer"},
		Status:       connector.RelationshipActive,
		AuditLog: []connector.RelationshipAuditLogEntry{
			{CreatedAt: at(5), Reason: "Creation", NewStatus: connector.RelationshipPending},
			{CreatedAt: at(10), Reason: "AcceptanceOfCreation", OldStatus: &pending, NewStatus: connector.RelationshipActive},
		},
	}, nil)
	conn.EXPECT().GetMails(gomock.Any(), "did:e:peer").Return([]connector.Message{
		{ID: "MSG1", IsOwn: true, CreatedAt: at(7), WasReadAt: timePtr(at(20)), Content: connector.MailContent{Subject: "Willkommen"}},
		{ID: "MSG2", IsOwn: false, CreatedAt: at(15), Content: connector.MailContent{Subject: "Frage"}},
	}, nil)
	conn.EXPECT().GetOutgoingRequests(gomock.Any(), "did:e:peer").Return([]connector.LocalRequest{
		{
			ID:        "REQ1",
			CreatedAt: at(12),
			Status:    "Completed",
			Source:    &connector.Source{Type: "Message", Reference: "MSG3"},
			Content: connector.RequestContent{Items: []connector.RequestItem{
				{Type: connector.TypeTransferFileOwnershipRequest, FileReference: "FILEREF"},
			}},
			Response: &connector.LocalResponse{
				CreatedAt: at(30),
				Source:    &connector.Source{Type: "Message", Reference: "MSG4"},
				Content: connector.ResponseContent{Items: []connector.ResponseItem{
					{Result: connector.ResultAccepted},
				}},
			},
		},
	}, nil)
	conn.EXPECT().GetOrLoadFile(gomock.Any(), "FILEREF").Return(connector.File{ID: "FIL1", Filename: "zeugnis.pdf"}, nil)
}

func TestBuildAuditLogWithoutTemplateIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAuditLogService(mocks.NewMockClient(ctrl))

	entries, err := svc.BuildAuditLog(context.Background(), &models.StudentRecord{ID: "S1"}, true)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestBuildAuditLogTemplateOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockClient(ctrl)
	conn.EXPECT().GetTemplate(gomock.Any(), "RLT1").Return(connector.RelationshipTemplate{ID: "RLT1", CreatedAt: at(0)}, nil)

	student := &models.StudentRecord{ID: "S1", InvitationTemplateID: models.StringPtr("RLT1")}
	entries, err := NewAuditLogService(conn).BuildAuditLog(context.Background(), student, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "RelationshipTemplate RLT1 created for student", entries[0].Message)
	assert.Equal(t, "S1", entries[0].SubjectID)
	assert.Nil(t, entries[0].Detail)
}

func TestBuildAuditLogMergesSourcesChronologically(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockClient(ctrl)
	expectFullHistory(conn)

	entries, err := NewAuditLogService(conn).BuildAuditLog(context.Background(), onboardedStudent("S1"), true)
	require.NoError(t, err)

	var messages []string
	for i, e := range entries {
		messages = append(messages, e.Message)
		assert.NotNil(t, e.Detail)
		if i > 0 {
			assert.False(t, e.Time.Before(entries[i-1].Time), "entries must be sorted")
		}
	}
	assert.Equal(t, []string{
		"RelationshipTemplate RLTS1 created for student",
		"Relationship RELS1 to student with enmeshed address 'did:e:peer' created.",
		"Mail MSG1 with subject 'Willkommen' has been sent.",
		"RelationshipStatus of relationship RELS1 changed from Pending to Active because of AcceptanceOfCreation",
		"Request REQ1 has been sent to peer with source MSG3.",
		"Request with file zeugnis.pdf has been sent to peer.",
		"Mail with subject 'Frage' has been received from peer.",
		"Student successfully received sent mail MSG1 with subject 'Willkommen'.",
		"Response to request REQ1 has been received by peer with source MSG4. Status is Completed.",
		"Peer has received request for file zeugnis.pdf and responded with status accepted.",
	}, messages)
}

func TestBuildAuditLogNonVerboseStripsDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockClient(ctrl)
	expectFullHistory(conn)

	entries, err := NewAuditLogService(conn).BuildAuditLog(context.Background(), onboardedStudent("S1"), false)
	require.NoError(t, err)
	require.Len(t, entries, 10)
	for _, e := range entries {
		assert.Nil(t, e.Detail)
	}
}

func TestBuildAuditLogFailsWhenAnySourceFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockClient(ctrl)
	conn.EXPECT().GetTemplate(gomock.Any(), "RLTS1").Return(connector.RelationshipTemplate{ID: "RLTS1", CreatedAt: at(0)}, nil)
	conn.EXPECT().GetRelationship(gomock.Any(), "RELS1").Return(connector.Relationship{ID: "RELS1", Peer: "did:e:peer"}, nil)
	conn.EXPECT().GetMails(gomock.Any(), "did:e:peer").Return(nil, connector.ErrUnavailable)
	conn.EXPECT().GetOutgoingRequests(gomock.Any(), "did:e:peer").Return(nil, nil).AnyTimes()

	entries, err := NewAuditLogService(conn).BuildAuditLog(context.Background(), onboardedStudent("S1"), true)
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, errors.Is(err, apperrors.ErrExternalService))
}

func TestRenderAuditLogText(t *testing.T) {
	text := RenderAuditLogText([]models.AuditLogEntry{
		{Time: at(0), Message: "first"},
		{Time: at(1), Message: "second"},
	})

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Equal(t, []string{
		"2024-03-01T10:00:00Z first",
		"2024-03-01T10:01:00Z second",
	}, lines)
}
