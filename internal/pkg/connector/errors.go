package connector

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the connector reports a missing record.
	ErrNotFound = errors.New("connector: record not found")
	// ErrUnavailable covers transport failures and 5xx answers.
	ErrUnavailable = errors.New("connector: unavailable")
	// ErrRejected covers 4xx answers other than 404.
	ErrRejected = errors.New("connector: request rejected")
)

// APIError is the error envelope returned by the connector REST API.
type APIError struct {
	Status  int    `json:"-"`
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("connector %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap classifies the error by HTTP status.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 404 || e.Code == "error.runtime.recordNotFound":
		return ErrNotFound
	case e.Status >= 500:
		return ErrUnavailable
	default:
		return ErrRejected
	}
}
