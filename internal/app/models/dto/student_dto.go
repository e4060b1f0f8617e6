package dto

import (
	"github.com/yigit/schoolconnector/internal/app/models"
)

// CreateStudentRequest represents the request body for onboarding a new student
type CreateStudentRequest struct {
	ID                 string                     `json:"id" binding:"required,min=1,max=64" example:"S-2024-001"`
	GivenName          string                     `json:"givenname" binding:"required,min=1,max=64" example:"Max"`
	Surname            string                     `json:"surname" binding:"required,min=1,max=64" example:"Mustermann"`
	Pin                string                     `json:"pin,omitempty" binding:"omitempty,pin" example:"1234"`
	AdditionalConsents []AdditionalConsentRequest `json:"additionalConsents,omitempty" binding:"omitempty,dive"`
}

// AdditionalConsentRequest is an extra consent the student must agree to
type AdditionalConsentRequest struct {
	MustBeAccepted  bool   `json:"mustBeAccepted"`
	Consent         string `json:"consent" binding:"required,min=1,max=10000"`
	Link            string `json:"link,omitempty" binding:"omitempty,url"`
	LinkDisplayText string `json:"linkDisplayText,omitempty" binding:"omitempty,min=1,max=64"`
}

// StudentResponse is a student record plus its derived onboarding status
type StudentResponse struct {
	ID                   string                  `json:"id" example:"S-2024-001"`
	GivenName            *string                 `json:"givenname,omitempty" example:"Max"`
	Surname              *string                 `json:"surname,omitempty" example:"Mustermann"`
	InvitationTemplateID *string                 `json:"correspondingRelationshipTemplateId,omitempty"`
	RelationshipID       *string                 `json:"correspondingRelationshipId,omitempty"`
	Status               models.OnboardingStatus `json:"status" example:"onboarding" enums:"onboarding,rejected,active,deleted"`
}

// NewStudentResponse builds the response from a record and its derived status
func NewStudentResponse(s *models.StudentRecord, status models.OnboardingStatus) StudentResponse {
	return StudentResponse{
		ID:                   s.ID,
		GivenName:            s.GivenName,
		Surname:              s.Surname,
		InvitationTemplateID: s.InvitationTemplateID,
		RelationshipID:       s.RelationshipID,
		Status:               status,
	}
}
