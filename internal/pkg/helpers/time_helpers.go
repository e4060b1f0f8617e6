package helpers

import (
	"time"

	"github.com/yigit/schoolconnector/internal/pkg/logger"
)

// ParseDuration parses a configured duration, returning fallback when it is empty or invalid.
func ParseDuration(setting, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		logger.Warn().Err(err).Str("setting", setting).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
