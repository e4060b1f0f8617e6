package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/filestorage"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/mailtemplate"
)

// MailService defines the operations on mails exchanged with students
type MailService interface {
	GetMails(ctx context.Context, student *models.StudentRecord) ([]connector.Message, error)
	SendMail(ctx context.Context, student *models.StudentRecord, subject, body string, data map[string]interface{}) (connector.Message, error)
	SendMailFromTemplate(ctx context.Context, student *models.StudentRecord, templateName string, data map[string]interface{}) (connector.Message, error)
}

type mailServiceImpl struct {
	conn   connector.Client
	assets filestorage.FileStorage
	log    zerolog.Logger
}

// NewMailService creates a new mail service instance
func NewMailService(conn connector.Client, assets filestorage.FileStorage) MailService {
	return &mailServiceImpl{
		conn:   conn,
		assets: assets,
		log:    logger.Component("mail-service"),
	}
}

// GetMails returns every mail exchanged with the student's peer
func (s *mailServiceImpl) GetMails(ctx context.Context, student *models.StudentRecord) ([]connector.Message, error) {
	if !student.HasRelationship() {
		return nil, noRelationshipError()
	}

	rel, err := s.conn.GetRelationship(ctx, student.RelID())
	if err != nil {
		return nil, connectorError("get relationship", err)
	}

	mails, err := s.conn.GetMails(ctx, rel.Peer)
	if err != nil {
		return nil, connectorError("get mails", err)
	}
	return mails, nil
}

// SendMail renders subject and body with the student's data and sends them.
// The relationship must be active.
func (s *mailServiceImpl) SendMail(ctx context.Context, student *models.StudentRecord, subject, body string, data map[string]interface{}) (connector.Message, error) {
	if !student.HasTemplate() {
		return connector.Message{}, studentDeletedError()
	}
	if !student.HasRelationship() {
		return connector.Message{}, noRelationshipError()
	}

	rel, err := s.conn.GetRelationship(ctx, student.RelID())
	if err != nil {
		return connector.Message{}, connectorError("get relationship", err)
	}
	if rel.Status != connector.RelationshipActive {
		return connector.Message{}, apperrors.NewPreconditionError(apperrors.CodeNoActiveRelationship,
			"The relationship to the student is not active, so sending a mail is not possible.")
	}

	tplData, err := s.templateData(ctx, student, rel.Peer, data)
	if err != nil {
		return connector.Message{}, err
	}

	rendered, err := mailtemplate.RenderTemplate(mailtemplate.Template{Subject: subject, Body: body}, tplData)
	if err != nil {
		return connector.Message{}, apperrors.NewTemplateError(apperrors.CodeTemplateInvalid, err.Error())
	}

	msg, err := s.conn.SendMessage(ctx, connector.SendMessageRequest{
		Recipients: []string{rel.Peer},
		Content: connector.MailContent{
			Type:    connector.TypeMail,
			To:      []string{rel.Peer},
			Subject: rendered.Subject,
			Body:    rendered.Body,
		},
	})
	if err != nil {
		return connector.Message{}, connectorError("send mail", err)
	}

	s.log.Info().Str("studentID", student.ID).Str("messageID", msg.ID).Msg("Mail sent")
	return msg, nil
}

// SendMailFromTemplate sends the asset mail_<templateName>.txt
func (s *mailServiceImpl) SendMailFromTemplate(ctx context.Context, student *models.StudentRecord, templateName string, data map[string]interface{}) (connector.Message, error) {
	raw, err := s.assets.ReadFile(mailtemplate.FileName(templateName))
	if err != nil {
		if errors.Is(err, filestorage.ErrFileNotFound) {
			return connector.Message{}, apperrors.NewTemplateError(apperrors.CodeTemplateNotFound,
				fmt.Sprintf("The template could not be found. Make sure to add the template with the name %s to the assets folder.", mailtemplate.FileName(templateName)))
		}
		return connector.Message{}, err
	}

	tpl, err := mailtemplate.Parse(string(raw))
	if err != nil {
		return connector.Message{}, apperrors.NewTemplateError(apperrors.CodeTemplateInvalid,
			"The template is invalid. Make sure to add a subject and a body.")
	}

	return s.SendMail(ctx, student, tpl.Subject, tpl.Body, data)
}

// templateData prefers the names the student shared over the ones stored at creation.
func (s *mailServiceImpl) templateData(ctx context.Context, student *models.StudentRecord, peer string, data map[string]interface{}) (mailtemplate.Data, error) {
	d := mailtemplate.Data{
		GivenName:   models.StringValue(student.GivenName),
		Surname:     models.StringValue(student.Surname),
		RequestBody: data,
	}

	attrs, err := s.conn.GetPeerAttributes(ctx, peer)
	if err != nil {
		return d, connectorError("get peer attributes", err)
	}
	for _, attr := range attrs {
		switch attr.Content.Value.Type {
		case "GivenName":
			d.GivenName = attr.Content.Value.Value
		case "Surname":
			d.Surname = attr.Content.Value.Value
		}
	}
	return d, nil
}
