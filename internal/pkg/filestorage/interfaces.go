package filestorage

import "errors"

// ErrFileNotFound is returned when a requested asset does not exist
var ErrFileNotFound = errors.New("file not found")

// FileStorage defines read access to the assets folder (mail templates, PDF assets)
type FileStorage interface {
	// ReadFile returns the content of a file relative to the storage root
	ReadFile(name string) ([]byte, error)

	// Exists reports whether a file is present
	Exists(name string) bool

	// GetFullPath returns the full filesystem path for a file name, or "" if
	// the name escapes the storage root
	GetFullPath(name string) string
}
