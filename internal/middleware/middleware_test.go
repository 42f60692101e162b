package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories/inmem"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleAPIError_Mapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"scheduling conflict", apperrors.Wrap(apperrors.ErrSchedulingConflict, "There is already a drive"), 409, dto.ErrorCodeSchedulingConflict, "There is already a drive"},
		{"invalid transition", apperrors.Wrap(apperrors.ErrInvalidStatusTransition, "Invalid status transition from scheduled to completed"), 400, dto.ErrorCodeInvalidTransition, "Invalid status transition from scheduled to completed"},
		{"validation", apperrors.NewValidationError("Name is required"), 400, dto.ErrorCodeValidationFailed, "Name is required"},
		{"not found", apperrors.ErrDriveNotFound, 404, dto.ErrorCodeResourceNotFound, "Vaccination drive not found"},
		{"duplicate student id", apperrors.ErrStudentIDAlreadyExists, 409, dto.ErrorCodeConflict, "Student ID already exists"},
		{"credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"rate limited", apperrors.ErrTooManyRequests, 429, dto.ErrorCodeTooManyRequests, "Too many requests"},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrStudentNotFound), 404, dto.ErrorCodeResourceNotFound, "Student not found"},
		{"internal", errors.New("pq: connection refused"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Stop()

	r := gin.New()
	r.POST("/login", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:5173"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextKeyRequestID)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestJWTAuth(t *testing.T) {
	repos := inmem.NewRepositories(inmem.NewStore())
	require.NoError(t, repos.Coordinators.Create(context.Background(), &models.Coordinator{
		ID: "c-1", Name: "Jane", Email: "jane@school.edu", School: "S", CreatedAt: time.Now(),
	}))
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})
	mw := NewAuthMiddleware(jwtSvc, repos.Coordinators, zerolog.Nop())

	r := gin.New()
	r.GET("/me", mw.JWTAuth(), func(c *gin.Context) { c.String(http.StatusOK, CoordinatorID(c)) })

	valid, _, err := jwtSvc.GenerateToken("c-1", "jane@school.edu")
	require.NoError(t, err)
	orphan, _, err := jwtSvc.GenerateToken("c-gone", "gone@school.edu")
	require.NoError(t, err)
	foreign, _, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", TokenIssuer: "test"}).GenerateToken("c-1", "x")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no bearer prefix", valid, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"deleted coordinator", "Bearer " + orphan, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "c-1", w.Body.String())
			}
		})
	}
}
