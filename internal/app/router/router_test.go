package router

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	analysishandler "resume_optimizer/internal/feature/resumeanalysis/transport/handler"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
	"resume_optimizer/internal/platform/http/handler"
	jwtmw "resume_optimizer/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubUsecase は履歴が無効な状態を再現するスタブです。
type stubUsecase struct{}

func (stubUsecase) AnalyzeResume(ctx context.Context, file entity.ResumeFile, jobDescription, apiKey string) (*entity.AnalysisRecord, error) {
	return nil, usecase.ErrMissingInput
}

func (stubUsecase) GetAnalysis(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	return nil, usecase.ErrHistoryDisabled
}

func (stubUsecase) ListAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	return nil, usecase.ErrHistoryDisabled
}

func newTestRouter(jwtSecret string) *gin.Engine {
	uc := stubUsecase{}
	return NewRouter(
		handler.NewHealthHandler(),
		analysishandler.NewAnalysisHandler(uc),
		analysishandler.NewPageHandler(uc, true),
		jwtSecret,
	)
}

func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter("")

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodHead, "/healthz", http.StatusOK},
		{http.MethodOptions, "/healthz", http.StatusNoContent},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/v1/analyses", http.StatusNotFound},
		{http.MethodGet, "/v1/analyses/abc", http.StatusNotFound},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestNewRouter_JWTGuard(t *testing.T) {
	t.Parallel()

	const secret = "router-secret"
	r := newTestRouter(secret)

	token, err := jwtmw.NewGenerator(secret, time.Hour).GenerateToken("cli")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{"api without token", "/v1/analyses", "", http.StatusUnauthorized},
		{"api with token", "/v1/analyses", "Bearer " + token, http.StatusNotFound},
		{"health stays open", "/healthz", "", http.StatusOK},
		{"page stays open", "/", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

// countingUsecase はAnalyzeResumeの呼び出し回数と受け取ったAPIキーを記録します。
type countingUsecase struct {
	stubUsecase
	calls   atomic.Int32
	lastKey atomic.Value
}

func (u *countingUsecase) AnalyzeResume(ctx context.Context, file entity.ResumeFile, jobDescription, apiKey string) (*entity.AnalysisRecord, error) {
	u.calls.Add(1)
	u.lastKey.Store(apiKey)
	return &entity.AnalysisRecord{ResumeName: file.Filename, Result: entity.AnalysisResult{MatchPercentage: "70%"}}, nil
}

func newPageForm(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Go engineer"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// TestNewRouter_PageServerKey はJWT_SECRET設定時に認証なしのページからサーバーのAPIキーを使えないことを検証します。
func TestNewRouter_PageServerKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		jwtSecret      string
		fields         map[string]string
		expectedStatus int
		expectedCalls  int32
		expectedKey    string
	}{
		{
			name:           "secret set: page without api_key rejected",
			jwtSecret:      "router-secret",
			fields:         map[string]string{"job_description": "Senior Go"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "secret set: page with api_key analyzed",
			jwtSecret:      "router-secret",
			fields:         map[string]string{"job_description": "Senior Go", "api_key": "user-key"},
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
			expectedKey:    "user-key",
		},
		{
			name:           "no secret: server key fallback allowed",
			fields:         map[string]string{"job_description": "Senior Go"},
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
			expectedKey:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &countingUsecase{}
			r := NewRouter(
				handler.NewHealthHandler(),
				analysishandler.NewAnalysisHandler(uc),
				analysishandler.NewPageHandler(uc, true),
				tt.jwtSecret,
			)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, newPageForm(t, tt.fields))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCalls, uc.calls.Load())
			if tt.expectedCalls > 0 {
				assert.Equal(t, tt.expectedKey, uc.lastKey.Load())
			}
		})
	}
}
