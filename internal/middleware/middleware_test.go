package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/auth"
	"github.com/yigit/schoolconnector/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth(t *testing.T) {
	hash, err := auth.HashAPIKey("hashed-secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		plain  string
		hashed string
		header string
		want   int
	}{
		{"plain key", "secret", "", "secret", http.StatusOK},
		{"wrong plain key", "secret", "", "guess", http.StatusUnauthorized},
		{"missing header", "secret", "", "", http.StatusUnauthorized},
		{"hashed key", "", hash, "hashed-secret", http.StatusOK},
		{"hash wins over plain", "secret", hash, "secret", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(APIKeyAuth(tt.plain, tt.hashed))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 26)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	assert.Equal(t, "caller-id", serve(r, req).Header().Get(RequestIDHeader))
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		message  string
		hasExtra bool
	}{
		{
			name:    "not found",
			err:     apperrors.NewResourceNotFoundError("Student S1 not found"),
			status:  http.StatusNotFound,
			code:    string(dto.ErrorCodeNotFound),
			message: "Student S1 not found",
		},
		{
			name:    "precondition keeps its code",
			err:     apperrors.NewPreconditionError(apperrors.CodeNoRelationship, "The student has no relationship."),
			status:  http.StatusPreconditionFailed,
			code:    apperrors.CodeNoRelationship,
			message: "The student has no relationship.",
		},
		{
			name:     "validation carries details",
			err:      apperrors.NewValidationError("Invalid CSV", map[string]interface{}{"line 2": []string{"surname is required"}}),
			status:   http.StatusBadRequest,
			code:     apperrors.CodeInvalidRequest,
			message:  "Invalid CSV",
			hasExtra: true,
		},
		{
			name:   "wrapped external failure",
			err:    fmt.Errorf("load: %w", apperrors.NewCustomError(apperrors.ErrExternalService, "get relationship failed")),
			status: http.StatusBadGateway,
			code:   string(dto.ErrorCodeExternalService),
		},
		{
			name:    "unknown error hides its message",
			err:     errors.New("pq: password authentication failed"),
			status:  http.StatusInternalServerError,
			code:    string(dto.ErrorCodeInternalServer),
			message: "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })
			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, tt.status, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, string(resp.Error.Code))
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
			assert.Equal(t, tt.hasExtra, resp.Error.Details != nil)
		})
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/students/S1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/students/S2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/students/:id", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")))
}
