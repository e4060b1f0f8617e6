package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/auth"
)

// APIKeyHeader carries the admin API key
const APIKeyHeader = "X-API-KEY"

// APIKeyAuth rejects requests without the configured API key. hashedKey takes
// precedence over plainKey when both are set.
func APIKeyAuth(plainKey, hashedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.CheckAPIKey(c.GetHeader(APIKeyHeader), plainKey, hashedKey) {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrInvalidAPIKey, "Invalid or missing API key"))
			return
		}
		c.Next()
	}
}
