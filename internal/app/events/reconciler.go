package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/schoolconnector/internal/app/repositories"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/metrics"
)

// DefaultSettleDelay is the wait before the second decompose of a relationship
// proposed for deletion.
const DefaultSettleDelay = 500 * time.Millisecond

// Handler consumes events
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// Reconciler keeps student records consistent with connector events
type Reconciler struct {
	repo        repositories.StudentRepository
	conn        connector.Client
	students    services.StudentService
	settleDelay time.Duration
	metrics     *metrics.Metrics
	log         zerolog.Logger

	// serializes record mutations; the settle delay runs outside of it
	mu sync.Mutex
}

// NewReconciler creates a reconciler. A zero settleDelay selects DefaultSettleDelay.
func NewReconciler(
	repo repositories.StudentRepository,
	conn connector.Client,
	students services.StudentService,
	settleDelay time.Duration,
	m *metrics.Metrics,
) *Reconciler {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Reconciler{
		repo:        repo,
		conn:        conn,
		students:    students,
		settleDelay: settleDelay,
		metrics:     m,
		log:         logger.Component("reconciler"),
	}
}

// Handle applies one event
func (r *Reconciler) Handle(ctx context.Context, ev Event) error {
	var (
		handled bool
		err     error
	)
	switch e := ev.(type) {
	case RequestAutoCompletedEvent:
		handled, err = r.onRequestAutoCompleted(ctx, e)
	case RelationshipChangedEvent:
		handled, err = r.onRelationshipChanged(ctx, e)
	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedEvent, ev)
	}

	outcome := "ignored"
	switch {
	case err != nil:
		outcome = "failed"
		r.log.Error().Err(err).Str("kind", kindOf(ev)).Msg("Event handling failed")
	case handled:
		outcome = "handled"
	}
	r.metrics.IncrementEvent(kindOf(ev), outcome)
	return err
}

func kindOf(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return string(ev.Kind())
}

func (r *Reconciler) onRequestAutoCompleted(ctx context.Context, e RequestAutoCompletedEvent) (bool, error) {
	log := r.log.With().Str("templateID", e.TemplateID).Str("relationshipID", e.RelationshipID).Logger()

	r.mu.Lock()
	student, err := r.repo.FindByTemplateID(ctx, e.TemplateID)
	if err != nil {
		r.mu.Unlock()
		if errors.Is(err, repositories.ErrStudentNotFound) {
			log.Debug().Msg("No student for template, ignoring")
			return false, nil
		}
		return false, err
	}

	if student.HasRelationship() {
		r.mu.Unlock()
		if student.RelID() != e.RelationshipID {
			return false, fmt.Errorf("student %s already has relationship %s", student.ID, student.RelID())
		}
		return r.retryAccept(ctx, student.ID, e.RelationshipID, log)
	}

	rel := e.RelationshipID
	student.RelationshipID = &rel
	err = r.repo.Update(ctx, student)
	r.mu.Unlock()
	if err != nil {
		return false, err
	}

	if _, err := r.conn.AcceptRelationship(ctx, e.RelationshipID); err != nil {
		return false, fmt.Errorf("accept relationship %s: %w", e.RelationshipID, err)
	}

	log.Info().Str("studentID", student.ID).Msg("Relationship accepted")
	return true, nil
}

// retryAccept accepts a recorded relationship that is still pending, which
// happens when the first accept failed after the record was updated.
func (r *Reconciler) retryAccept(ctx context.Context, studentID, relationshipID string, log zerolog.Logger) (bool, error) {
	rel, err := r.conn.GetRelationship(ctx, relationshipID)
	if err != nil {
		return false, fmt.Errorf("get relationship %s: %w", relationshipID, err)
	}
	if rel.Status != connector.RelationshipPending {
		log.Debug().Str("studentID", studentID).Str("status", string(rel.Status)).Msg("Relationship already recorded")
		return false, nil
	}

	if _, err := r.conn.AcceptRelationship(ctx, relationshipID); err != nil {
		return false, fmt.Errorf("accept relationship %s: %w", relationshipID, err)
	}
	log.Info().Str("studentID", studentID).Msg("Pending relationship accepted on redelivery")
	return true, nil
}

func (r *Reconciler) onRelationshipChanged(ctx context.Context, e RelationshipChangedEvent) (bool, error) {
	if e.Status != connector.RelationshipDeletionProposed {
		return false, nil
	}
	log := r.log.With().Str("relationshipID", e.RelationshipID).Logger()

	if err := r.deleteByRelationship(ctx, e.RelationshipID, log); err != nil {
		return false, err
	}

	if err := sleep(ctx, r.settleDelay); err != nil {
		return false, err
	}

	if err := r.conn.DecomposeRelationship(ctx, e.RelationshipID); err != nil {
		if !errors.Is(err, connector.ErrNotFound) {
			return false, fmt.Errorf("decompose relationship %s: %w", e.RelationshipID, err)
		}
		log.Debug().Msg("Relationship already decomposed")
	}

	log.Info().Msg("Relationship proposed for deletion cleaned up")
	return true, nil
}

func (r *Reconciler) deleteByRelationship(ctx context.Context, relationshipID string, log zerolog.Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, err := r.repo.FindByRelationshipID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			log.Debug().Msg("No student for relationship, already deleted")
			return nil
		}
		return err
	}

	return r.students.DeleteStudent(ctx, student)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
