package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
)

// AuditLogService assembles the audit trail of a student
type AuditLogService interface {
	BuildAuditLog(ctx context.Context, student *models.StudentRecord, verbose bool) ([]models.AuditLogEntry, error)
}

type auditLogServiceImpl struct {
	conn connector.Client
}

// NewAuditLogService creates a new audit log service instance
func NewAuditLogService(conn connector.Client) AuditLogService {
	return &auditLogServiceImpl{conn: conn}
}

// BuildAuditLog merges template, relationship, mail, request and file events
// into one log sorted by time. Entries with equal times keep source order:
// template, relationship, mails, requests, files. Any failing source fails
// the whole log.
func (s *auditLogServiceImpl) BuildAuditLog(ctx context.Context, student *models.StudentRecord, verbose bool) ([]models.AuditLogEntry, error) {
	entries := []models.AuditLogEntry{}
	if !student.HasTemplate() {
		return entries, nil
	}

	tpl, err := s.conn.GetTemplate(ctx, student.TemplateID())
	if err != nil {
		return nil, connectorError("get relationship template", err)
	}
	entries = append(entries, models.AuditLogEntry{
		Time:      tpl.CreatedAt,
		SubjectID: student.ID,
		Message:   fmt.Sprintf("RelationshipTemplate %s created for student", tpl.ID),
		Detail:    tpl,
	})

	if !student.HasRelationship() {
		return finishAuditLog(entries, verbose), nil
	}

	rel, err := s.conn.GetRelationship(ctx, student.RelID())
	if err != nil {
		return nil, connectorError("get relationship", err)
	}
	entries = append(entries, relationshipEntries(student.ID, rel)...)

	var (
		mailEntries    []models.AuditLogEntry
		requestEntries []models.AuditLogEntry
		fileEntries    []models.AuditLogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mails, err := s.conn.GetMails(gctx, rel.Peer)
		if err != nil {
			return connectorError("get mails", err)
		}
		mailEntries = mailAuditEntries(student.ID, mails)
		return nil
	})
	g.Go(func() error {
		requests, err := s.conn.GetOutgoingRequests(gctx, rel.Peer)
		if err != nil {
			return connectorError("get outgoing requests", err)
		}
		requestEntries = requestAuditEntries(student.ID, requests)

		files, err := projectFiles(gctx, s.conn, requests)
		if err != nil {
			return err
		}
		fileEntries = fileAuditEntries(student.ID, files)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries = append(entries, mailEntries...)
	entries = append(entries, requestEntries...)
	entries = append(entries, fileEntries...)
	return finishAuditLog(entries, verbose), nil
}

func finishAuditLog(entries []models.AuditLogEntry, verbose bool) []models.AuditLogEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	if !verbose {
		for i := range entries {
			entries[i].Detail = nil
		}
	}
	return entries
}

func relationshipEntries(studentID string, rel connector.Relationship) []models.AuditLogEntry {
	out := make([]models.AuditLogEntry, 0, len(rel.AuditLog))
	for _, e := range rel.AuditLog {
		var msg string
		if e.OldStatus != nil {
			msg = fmt.Sprintf("RelationshipStatus of relationship %s changed from %s to %s because of %s",
				rel.ID, *e.OldStatus, e.NewStatus, e.Reason)
		} else {
			msg = fmt.Sprintf("Relationship %s to student with enmeshed address '%s' created.",
				rel.ID, rel.PeerIdentity.Address)
		}
		out = append(out, models.AuditLogEntry{Time: e.CreatedAt, SubjectID: studentID, Message: msg, Detail: rel})
	}
	return out
}

func mailAuditEntries(studentID string, mails []connector.Message) []models.AuditLogEntry {
	var out []models.AuditLogEntry
	for _, m := range mails {
		if !m.IsOwn {
			out = append(out, models.AuditLogEntry{
				Time:      m.CreatedAt,
				SubjectID: studentID,
				Message:   fmt.Sprintf("Mail with subject '%s' has been received from peer.", m.Content.Subject),
				Detail:    m,
			})
			continue
		}

		out = append(out, models.AuditLogEntry{
			Time:      m.CreatedAt,
			SubjectID: studentID,
			Message:   fmt.Sprintf("Mail %s with subject '%s' has been sent.", m.ID, m.Content.Subject),
			Detail:    m,
		})
		if m.WasReadAt != nil {
			out = append(out, models.AuditLogEntry{
				Time:      *m.WasReadAt,
				SubjectID: studentID,
				Message:   fmt.Sprintf("Student successfully received sent mail %s with subject '%s'.", m.ID, m.Content.Subject),
				Detail:    m,
			})
		}
	}
	return out
}

func sourceReference(src *connector.Source) string {
	if src == nil {
		return "unknown"
	}
	return src.Reference
}

func requestAuditEntries(studentID string, requests []connector.LocalRequest) []models.AuditLogEntry {
	var out []models.AuditLogEntry
	for _, r := range requests {
		out = append(out, models.AuditLogEntry{
			Time:      r.CreatedAt,
			SubjectID: studentID,
			Message:   fmt.Sprintf("Request %s has been sent to peer with source %s.", r.ID, sourceReference(r.Source)),
			Detail:    r,
		})
		if r.Response != nil {
			out = append(out, models.AuditLogEntry{
				Time:      r.Response.CreatedAt,
				SubjectID: studentID,
				Message: fmt.Sprintf("Response to request %s has been received by peer with source %s. Status is %s.",
					r.ID, sourceReference(r.Response.Source), r.Status),
				Detail: r.Response,
			})
		}
	}
	return out
}

func fileAuditEntries(studentID string, files []models.SchoolFile) []models.AuditLogEntry {
	var out []models.AuditLogEntry
	for _, f := range files {
		out = append(out, models.AuditLogEntry{
			Time:      f.SentAt,
			SubjectID: studentID,
			Message:   fmt.Sprintf("Request with file %s has been sent to peer.", f.Filename),
			Detail:    f,
		})
		if f.RespondedAt != nil {
			out = append(out, models.AuditLogEntry{
				Time:      *f.RespondedAt,
				SubjectID: studentID,
				Message:   fmt.Sprintf("Peer has received request for file %s and responded with status %s.", f.Filename, f.Status),
				Detail:    f,
			})
		}
	}
	return out
}

// RenderAuditLogText renders one "<RFC3339 time> <message>" line per entry.
func RenderAuditLogText(entries []models.AuditLogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Time.UTC().Format(time.RFC3339))
		b.WriteByte(' ')
		b.WriteString(e.Message)
		b.WriteByte('\n')
	}
	return b.String()
}
