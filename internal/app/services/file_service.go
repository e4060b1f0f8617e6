package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
)

// Abiturzeugnis defaults
const (
	AbiturzeugnisTitle    = "Abiturzeugnis"
	AbiturzeugnisFilename = "Abiturzeugnis.pdf"
	AbiturzeugnisMimetype = "application/pdf"
)

// AbiturzeugnisTags are always attached to an Abiturzeugnis
var AbiturzeugnisTags = []string{"schulzeugnis", "abiturzeugnis"}

const fileLookupConcurrency = 4

// SendFileInput is a file to offer to a student
type SendFileInput struct {
	Content  []byte
	Title    string
	Filename string
	Mimetype string
	Tags     []string
}

// FileService defines the file transfer operations
type FileService interface {
	ListStudentFiles(ctx context.Context, student *models.StudentRecord) ([]models.SchoolFile, error)
	SendFile(ctx context.Context, student *models.StudentRecord, input SendFileInput) (models.SchoolFile, error)
	SendAbiturzeugnis(ctx context.Context, student *models.StudentRecord, input SendFileInput) (models.SchoolFile, error)
}

type fileServiceImpl struct {
	conn connector.Client
	log  zerolog.Logger
}

// NewFileService creates a new file service instance
func NewFileService(conn connector.Client) FileService {
	return &fileServiceImpl{
		conn: conn,
		log:  logger.Component("file-service"),
	}
}

// IsFileTransferRequest reports whether a request consists of exactly one
// file ownership transfer item. Only those are projected as files.
func IsFileTransferRequest(req connector.LocalRequest) bool {
	items := req.Content.Items
	return len(items) == 1 && items[0].Type == connector.TypeTransferFileOwnershipRequest
}

func fileStatus(resp *connector.LocalResponse) models.FileStatus {
	if resp == nil || len(resp.Content.Items) == 0 {
		return models.FilePending
	}
	if resp.Content.Items[0].Result == connector.ResultAccepted {
		return models.FileAccepted
	}
	return models.FileRejected
}

func toSchoolFile(req connector.LocalRequest, filename string) models.SchoolFile {
	f := models.SchoolFile{
		Filename: filename,
		Status:   fileStatus(req.Response),
		SentAt:   req.CreatedAt,
	}
	if req.Response != nil {
		respondedAt := req.Response.CreatedAt
		f.RespondedAt = &respondedAt
	}
	return f
}

// projectFiles resolves the file names of all file transfer requests, keeping
// the request order.
func projectFiles(ctx context.Context, conn connector.Client, requests []connector.LocalRequest) ([]models.SchoolFile, error) {
	var transfers []connector.LocalRequest
	for _, req := range requests {
		if IsFileTransferRequest(req) {
			transfers = append(transfers, req)
		}
	}

	files := make([]models.SchoolFile, len(transfers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileLookupConcurrency)
	for i, req := range transfers {
		i, req := i, req
		g.Go(func() error {
			file, err := conn.GetOrLoadFile(gctx, req.Content.Items[0].FileReference)
			if err != nil {
				return connectorError("get file", err)
			}
			files[i] = toSchoolFile(req, file.Filename)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ListStudentFiles returns the files offered to the student
func (s *fileServiceImpl) ListStudentFiles(ctx context.Context, student *models.StudentRecord) ([]models.SchoolFile, error) {
	if !student.HasRelationship() {
		return []models.SchoolFile{}, nil
	}

	rel, err := s.conn.GetRelationship(ctx, student.RelID())
	if err != nil {
		return nil, connectorError("get relationship", err)
	}

	requests, err := s.conn.GetOutgoingRequests(ctx, rel.Peer)
	if err != nil {
		return nil, connectorError("get outgoing requests", err)
	}
	return projectFiles(ctx, s.conn, requests)
}

// SendFile uploads the file and offers its ownership to the student
func (s *fileServiceImpl) SendFile(ctx context.Context, student *models.StudentRecord, input SendFileInput) (models.SchoolFile, error) {
	if !student.HasRelationship() {
		return models.SchoolFile{}, noRelationshipError()
	}

	rel, err := s.conn.GetRelationship(ctx, student.RelID())
	if err != nil {
		return models.SchoolFile{}, connectorError("get relationship", err)
	}

	file, err := s.conn.UploadOwnFile(ctx, connector.UploadFileRequest{
		Content:  input.Content,
		Filename: input.Filename,
		Mimetype: input.Mimetype,
		Title:    input.Title,
		Tags:     input.Tags,
	})
	if err != nil {
		return models.SchoolFile{}, connectorError("upload file", err)
	}

	req, err := s.conn.CreateOutgoingRequest(ctx, connector.CreateOutgoingRequest{
		Peer: rel.Peer,
		Content: connector.RequestContent{
			Items: []connector.RequestItem{{
				Type:                  connector.TypeTransferFileOwnershipRequest,
				MustBeAccepted:        connector.Bool(true),
				RequireManualDecision: connector.Bool(true),
				FileReference:         file.Reference.Truncated,
			}},
		},
	})
	if err != nil {
		return models.SchoolFile{}, connectorError("create file transfer request", err)
	}

	if _, err := s.conn.SendMessage(ctx, connector.SendMessageRequest{
		Recipients: []string{rel.Peer},
		Content:    req.Content,
	}); err != nil {
		return models.SchoolFile{}, connectorError("send file transfer request", err)
	}

	s.log.Info().
		Str("studentID", student.ID).
		Str("fileID", file.ID).
		Str("requestID", req.ID).
		Msg("File offered to student")

	return toSchoolFile(req, file.Filename), nil
}

// SendAbiturzeugnis sends a file with the Abiturzeugnis defaults and tags
func (s *fileServiceImpl) SendAbiturzeugnis(ctx context.Context, student *models.StudentRecord, input SendFileInput) (models.SchoolFile, error) {
	if input.Title == "" {
		input.Title = AbiturzeugnisTitle
	}
	if input.Filename == "" {
		input.Filename = AbiturzeugnisFilename
	}
	if input.Mimetype == "" {
		input.Mimetype = AbiturzeugnisMimetype
	}
	input.Tags = mergeTags(input.Tags, AbiturzeugnisTags...)

	return s.SendFile(ctx, student, input)
}

func mergeTags(tags []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(tags)+len(extra))
	out := make([]string, 0, len(tags)+len(extra))
	for _, t := range append(append([]string{}, tags...), extra...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
