package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
)

// Services defined in this package:
// - StudentService: student records, onboarding invitations and deletion
// - AuditLogService: chronological audit trail of a student
// - FileService: file transfers to students
// - MailService: mails exchanged with students
// - OnboardingService: onboarding links, QR codes and PDFs
// - BatchService: CSV batch onboarding

// connectorError classifies a connector failure for the REST boundary while
// keeping the connector sentinel reachable through errors.Is.
func connectorError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, connector.ErrNotFound) {
		return &apperrors.CustomError{
			Err:     fmt.Errorf("%w: %w", apperrors.ErrResourceNotFound, err),
			Message: fmt.Sprintf("%s: record not found in connector", op),
		}
	}
	return &apperrors.CustomError{
		Err:     fmt.Errorf("%w: %w", apperrors.ErrExternalService, err),
		Message: fmt.Sprintf("%s failed: %v", op, err),
		Code:    apperrors.CodeConnectorFailure,
	}
}

func noRelationshipError() error {
	return apperrors.NewPreconditionError(apperrors.CodeNoRelationship, "The student has no relationship.")
}

func studentDeletedError() error {
	return apperrors.NewPreconditionError(apperrors.CodeStudentAlreadyDeleted, "The student seems to be already deleted.")
}
