package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/dberrors"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
)

const (
	studentsTable      = "students"
	studentsPrimaryKey = "students_pkey"
)

var studentColumns = []string{"id", "given_name", "surname", "invitation_template_id", "relationship_id"}

// PostgresStudentRepository handles student database operations
type PostgresStudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ StudentRepository = (*PostgresStudentRepository)(nil)

// NewPostgresStudentRepository creates a new PostgresStudentRepository
func NewPostgresStudentRepository(db *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.StudentRecord, error) {
	s := &models.StudentRecord{}
	if err := row.Scan(&s.ID, &s.GivenName, &s.Surname, &s.InvitationTemplateID, &s.RelationshipID); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new student
func (r *PostgresStudentRepository) Create(ctx context.Context, student *models.StudentRecord) error {
	sql, args, err := r.sb.Insert(studentsTable).
		Columns(studentColumns...).
		Values(student.ID, student.GivenName, student.Surname, student.InvitationTemplateID, student.RelationshipID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsPrimaryKey) {
			return ErrStudentAlreadyExists
		}
		if dberrors.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.StudentRecord, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return s, nil
}

// GetByID retrieves a student by id
func (r *PostgresStudentRepository) GetByID(ctx context.Context, id string) (*models.StudentRecord, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// FindByTemplateID retrieves the student invited with the given template
func (r *PostgresStudentRepository) FindByTemplateID(ctx context.Context, templateID string) (*models.StudentRecord, error) {
	return r.getOne(ctx, squirrel.Eq{"invitation_template_id": templateID})
}

// FindByRelationshipID retrieves the student owning the given relationship
func (r *PostgresStudentRepository) FindByRelationshipID(ctx context.Context, relationshipID string) (*models.StudentRecord, error) {
	return r.getOne(ctx, squirrel.Eq{"relationship_id": relationshipID})
}

// List retrieves all students ordered by id
func (r *PostgresStudentRepository) List(ctx context.Context) ([]*models.StudentRecord, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.StudentRecord{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// Update overwrites every mutable column of a student
func (r *PostgresStudentRepository) Update(ctx context.Context, student *models.StudentRecord) error {
	sql, args, err := r.sb.Update(studentsTable).
		SetMap(map[string]interface{}{
			"given_name":             student.GivenName,
			"surname":                student.Surname,
			"invitation_template_id": student.InvitationTemplateID,
			"relationship_id":        student.RelationshipID,
			"updated_at":             squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes a student
func (r *PostgresStudentRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(studentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Exists reports whether a student with the id exists
func (r *PostgresStudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(studentsTable).
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists student query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}
