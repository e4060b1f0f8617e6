package services

import (
	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
)

// DeriveStatus maps a student record and the live status of its relationship
// to an onboarding status. relationshipStatus is nil when no relationship was
// fetched. The result must not be cached: the relationship changes remotely.
func DeriveStatus(student *models.StudentRecord, relationshipStatus *connector.RelationshipStatus) models.OnboardingStatus {
	if !student.HasTemplate() {
		return models.StatusDeleted
	}
	if !student.HasRelationship() || relationshipStatus == nil {
		return models.StatusOnboarding
	}

	switch *relationshipStatus {
	case connector.RelationshipActive:
		return models.StatusActive
	case connector.RelationshipRejected,
		connector.RelationshipRevoked,
		connector.RelationshipTerminated,
		connector.RelationshipDeletionProposed:
		return models.StatusRejected
	default:
		return models.StatusOnboarding
	}
}
