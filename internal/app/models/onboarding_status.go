package models

// OnboardingStatus is the derived lifecycle stage of a student. It is never persisted.
type OnboardingStatus string

const (
	StatusOnboarding OnboardingStatus = "onboarding"
	StatusRejected   OnboardingStatus = "rejected"
	StatusActive     OnboardingStatus = "active"
	StatusDeleted    OnboardingStatus = "deleted"
)

// FileStatus is the state of a file offered to a student.
type FileStatus string

const (
	FilePending  FileStatus = "pending"
	FileAccepted FileStatus = "accepted"
	FileRejected FileStatus = "rejected"
)
