package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meetings-api/internal/middleware"
	apperrors "meetings-api/pkg/errors"
	"meetings-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter() (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(middleware.ErrorHandler(&logger.Logger{Logger: zap.New(core)}))
	return r, logs
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verr := apperrors.NewValidationError("invalid meeting")
	verr.Add("agenda", "This field is required.")

	tests := []struct {
		name   string
		err    error
		status int
		body   string
		logged bool
	}{
		{
			name:   "validation lists fields",
			err:    verr,
			status: http.StatusBadRequest,
			body:   `{"error":"invalid meeting","code":"INVALID_REQUEST","fields":{"agenda":["This field is required."]}}`,
		},
		{
			name:   "request level message",
			err:    apperrors.Invalid("Username and password required"),
			status: http.StatusBadRequest,
			body:   `{"error":"Username and password required","code":"INVALID_REQUEST"}`,
		},
		{
			name:   "message error keeps text",
			err:    apperrors.WithMessage(apperrors.ErrUnauthorized, "No active account found with the given credentials"),
			status: http.StatusUnauthorized,
			body:   `{"error":"No active account found with the given credentials","code":"UNAUTHORIZED"}`,
		},
		{
			name:   "wrapped not found",
			err:    fmt.Errorf("get meeting: %w", apperrors.ErrNotFound),
			status: http.StatusNotFound,
			body:   `{"error":"Not found.","code":"NOT_FOUND"}`,
		},
		{
			name:   "forbidden",
			err:    apperrors.ErrForbidden,
			status: http.StatusForbidden,
			body:   `{"error":"You do not have permission to perform this action.","code":"FORBIDDEN"}`,
		},
		{
			name:   "internal error hides detail",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"error":"internal server error","code":"INTERNAL_ERROR"}`,
			logged: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, logs := newObservedRouter()
			r.GET("/", func(c *gin.Context) { writeError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			if tt.logged {
				entries := logs.FilterMessage("request failed").All()
				require.Len(t, entries, 1)
				assert.Equal(t, "/", entries[0].ContextMap()["path"])
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func TestMeetingID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		param string
		id    int64
		ok    bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.param}}
		id, ok := meetingID(c)
		assert.Equal(t, tt.ok, ok, tt.param)
		assert.Equal(t, tt.id, id, tt.param)
	}
}

func TestBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "wrong type is keyed by field",
			body: `{"agenda": 123}`,
			want: `{"error":"invalid request","code":"INVALID_REQUEST","fields":{"agenda":["Not a valid string."]}}`,
		},
		{
			name: "malformed json",
			body: `{"agenda":`,
			want: `{"error":"invalid request","code":"INVALID_REQUEST"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newObservedRouter()
			r.POST("/", func(c *gin.Context) {
				var req struct {
					Agenda *string `json:"agenda"`
				}
				if err := c.ShouldBindJSON(&req); err != nil {
					writeError(c, bindError(err))
					return
				}
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}
