package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/validation"
)

// BatchRow is one student of a CSV import
type BatchRow struct {
	ID        string `validate:"required,min=1,max=64"`
	GivenName string `validate:"required,min=1,max=64"`
	Surname   string `validate:"required,min=1,max=64"`
	Pin       string `validate:"omitempty,pin"`
}

// BatchResult is the outcome of one row
type BatchResult struct {
	Row    BatchRow
	Status models.OnboardingStatus
	Link   string
	Err    error
}

// BatchReport is the outcome of a whole import
type BatchReport struct {
	ID      string
	Results []BatchResult
}

// CSV columns
var (
	batchInputHeader  = []string{"id", "givenname", "surname"}
	batchOutputHeader = []string{"id", "givenname", "surname", "status", "link", "error"}
)

// BatchService defines the CSV batch onboarding
type BatchService interface {
	ParseCSV(r io.Reader) ([]BatchRow, error)
	Import(ctx context.Context, r io.Reader) (*BatchReport, error)
}

type batchServiceImpl struct {
	students   StudentService
	onboarding OnboardingService
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewBatchService creates a new batch service instance
func NewBatchService(students StudentService, onboarding OnboardingService) BatchService {
	return &batchServiceImpl{
		students:   students,
		onboarding: onboarding,
		validate:   validation.New(),
		log:        logger.Component("batch-service"),
	}
}

// ParseCSV reads and validates every row. All problems are reported in a
// single validation error keyed by line.
func (s *batchServiceImpl) ParseCSV(r io.Reader) ([]BatchRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewValidationError("The CSV could not be read.", map[string]interface{}{"body": err.Error()})
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("The CSV is empty.", map[string]interface{}{"body": "missing header"})
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range batchInputHeader {
		if _, ok := columns[name]; !ok {
			return nil, apperrors.NewValidationError("The CSV header is invalid.",
				map[string]interface{}{"header": fmt.Sprintf("missing column %s", name)})
		}
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	details := map[string]interface{}{}
	seen := map[string]int{}
	rows := make([]BatchRow, 0, len(records)-1)
	for n, record := range records[1:] {
		line := n + 2
		row := BatchRow{
			ID:        cell(record, "id"),
			GivenName: cell(record, "givenname"),
			Surname:   cell(record, "surname"),
			Pin:       cell(record, "pin"),
		}

		var problems []string
		if err := s.validate.Struct(row); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					problems = append(problems, validation.FormatFieldError(fe))
				}
			} else {
				problems = append(problems, err.Error())
			}
		}
		if prev, dup := seen[row.ID]; dup && row.ID != "" {
			problems = append(problems, fmt.Sprintf("ID duplicates line %d", prev))
		} else {
			seen[row.ID] = line
		}

		if len(problems) > 0 {
			details[fmt.Sprintf("line %d", line)] = problems
		}
		rows = append(rows, row)
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("The CSV contains invalid rows.", details)
	}
	return rows, nil
}

// Import creates the students of a CSV one after another. A failing row is
// recorded in its result; rows created before it are kept.
func (s *batchServiceImpl) Import(ctx context.Context, r io.Reader) (*BatchReport, error) {
	rows, err := s.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{ID: uuid.NewString(), Results: make([]BatchResult, 0, len(rows))}
	log := s.log.With().Str("batchID", report.ID).Logger()
	log.Info().Int("rows", len(rows)).Msg("Starting batch import")

	failed := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := s.importRow(ctx, row)
		if result.Err != nil {
			failed++
			log.Warn().Err(result.Err).Str("studentID", row.ID).Msg("Batch row failed")
		}
		report.Results = append(report.Results, result)
	}

	log.Info().Int("rows", len(rows)).Int("failed", failed).Msg("Batch import finished")
	return report, nil
}

func (s *batchServiceImpl) importRow(ctx context.Context, row BatchRow) BatchResult {
	result := BatchResult{Row: row}

	student, err := s.students.CreateStudent(ctx, CreateStudentInput{
		ID:        row.ID,
		GivenName: row.GivenName,
		Surname:   row.Surname,
		Pin:       row.Pin,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Status = DeriveStatus(student, nil)

	link, err := s.onboarding.GetLink(ctx, student)
	if err != nil {
		result.Err = err
		return result
	}
	result.Link = link
	return result
}

// WriteBatchCSV writes a report as CSV with one line per input row
func WriteBatchCSV(w io.Writer, report *BatchReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(batchOutputHeader); err != nil {
		return err
	}
	for _, res := range report.Results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		if err := cw.Write([]string{
			res.Row.ID,
			res.Row.GivenName,
			res.Row.Surname,
			string(res.Status),
			res.Link,
			errText,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
