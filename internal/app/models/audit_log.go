package models

import "time"

// AuditLogEntry is one line of a student's audit trail
type AuditLogEntry struct {
	Time time.Time `json:"time" example:"2024-01-01T10:00:00Z"`
	// Id of the student the entry belongs to
	SubjectID string `json:"id" example:"RLTxxx"`
	Message   string `json:"log" example:"RelationshipTemplate RLTxxx created for student"`
	// Only attached on verbose requests
	Detail interface{} `json:"object,omitempty"`
}
