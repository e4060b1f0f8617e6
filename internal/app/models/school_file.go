package models

import "time"

// SchoolFile is a file offered to a student through a single-item transfer request
type SchoolFile struct {
	Filename    string     `json:"filename" example:"Abiturzeugnis.pdf"`
	Status      FileStatus `json:"status" example:"pending"`
	SentAt      time.Time  `json:"fileSentAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"` // Nil until the student answered
}
