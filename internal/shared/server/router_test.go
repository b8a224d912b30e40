package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-matcher/internal/analyses"
	"cv-matcher/internal/documents"
	"cv-matcher/internal/resumes"
	"cv-matcher/internal/services/health"
	"cv-matcher/internal/shared/config"
	localstore "cv-matcher/internal/shared/storage/object/local"
	"cv-matcher/internal/taskqueue"
	"cv-matcher/internal/users"
)

type textStub struct{}

func (textStub) ExtractText(context.Context, documents.Document) (string, error) {
	return "Go engineer", nil
}

type analyzerStub struct{}

func (analyzerStub) Analyze(context.Context, string) (analyses.Result, error) {
	return analyses.Result{TechnicalSkills: []string{"Go"}, SoftSkills: []string{}, JobPreferences: "Remote", ResumeScore: 70}, nil
}

func newTestRouter(t *testing.T, cfg config.Config) (http.Handler, *users.Service) {
	t.Helper()
	usersSvc := users.NewService(users.NewMemoryRepo())
	docs := documents.NewService(localstore.New(t.TempDir()))
	svc := resumes.NewService(usersSvc, docs, textStub{}, analyzerStub{}, taskqueue.New())
	return NewRouter(RouterDeps{
		Config:        cfg,
		Health:        health.NewService(nil, svc.Queue),
		UserHandler:   users.NewHandler(usersSvc),
		ResumeHandler: resumes.NewHandler(svc),
	}), usersSvc
}

func uploadRequest(t *testing.T) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Guest-Id", "e2e")
	return req
}

func TestRouterUploadThenProfile(t *testing.T) {
	r, _ := newTestRouter(t, config.Config{Env: "dev"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-Guest-Id", "e2e")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resumeScore":70`)
	assert.Contains(t, w.Body.String(), `"technicalSkills":["Go"]`)
}

func TestRouterRejectsGuestsOutsideDev(t *testing.T) {
	r, _ := newTestRouter(t, config.Config{Env: "production"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterRateLimitsUploads(t *testing.T) {
	r, _ := newTestRouter(t, config.Config{Env: "dev", UploadRatePerMinute: 1})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, config.Config{Env: "dev"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resume_received_total")
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
