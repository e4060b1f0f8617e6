package filestorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/schoolconnector/internal/pkg/logger"
)

// LocalStorage reads assets from the local filesystem.
type LocalStorage struct {
	basePath string // The root directory of the assets
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance. The base path must exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assets directory %s: %w", basePath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		logger.Error().Err(err).Str("path", abs).Msg("Assets directory is not accessible")
		return nil, fmt.Errorf("assets directory %s is not accessible: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets location %s is not a directory", abs)
	}
	logger.Info().Str("path", abs).Msg("Assets directory ensured")

	return &LocalStorage{basePath: abs}, nil
}

// GetFullPath returns the full filesystem path for a given file name.
// Names that would leave the base path resolve to "".
func (ls *LocalStorage) GetFullPath(name string) string {
	if name == "" {
		return ""
	}
	full := filepath.Join(ls.basePath, filepath.Clean("/"+name))
	if full != ls.basePath && !strings.HasPrefix(full, ls.basePath+string(filepath.Separator)) {
		return ""
	}
	return full
}

// Exists reports whether a regular file with the name exists
func (ls *LocalStorage) Exists(name string) bool {
	full := ls.GetFullPath(name)
	if full == "" {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// ReadFile returns the content of name, or ErrFileNotFound
func (ls *LocalStorage) ReadFile(name string) ([]byte, error) {
	full := ls.GetFullPath(name)
	if full == "" {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		logger.Error().Err(err).Str("path", full).Msg("Failed to read asset")
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return content, nil
}
