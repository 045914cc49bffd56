package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks ...Check) *gin.Engine {
	h := NewHealthHandler(checks...)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	r.POST("/healthz", h.Health)
	return r
}

func ok(name string) Check {
	return Check{Name: name, Ping: func(ctx context.Context) error { return nil }}
}

func failing(name string) Check {
	return Check{Name: name, Ping: func(ctx context.Context) error { return errors.New("connection refused") }}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		checks         []Check
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "GET without dependencies",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "GET with healthy dependencies",
			method:         http.MethodGet,
			checks:         []Check{ok("redis"), ok("history")},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{"redis":"ok","history":"ok"}}`,
		},
		{
			name:           "GET with a failing dependency",
			method:         http.MethodGet,
			checks:         []Check{ok("redis"), failing("history")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"degraded","checks":{"redis":"ok","history":"unavailable"}}`,
		},
		{
			name:           "POST is answered like GET",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks...).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	// HEADは依存サービスを確認しない
	w := httptest.NewRecorder()
	setupRouter(failing("redis")).ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_OPTIONS(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/healthz", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
