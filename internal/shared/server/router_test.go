package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/jobs"
	"resume-matcher/internal/services/health"
	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server/middleware"
)

type stubJobParser struct{}

func (stubJobParser) ParseJobDescription(_ context.Context, text string) (analysis.JobFacts, error) {
	return analysis.JobFacts{Title: "Engineer"}, nil
}

func (stubJobParser) ExtractSkills(_ context.Context, text string) (analysis.SkillSet, error) {
	return analysis.SkillSet{RequiredSkills: []string{}, PreferredSkills: []string{}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)
	token, _, err := issuer.Sign("user-1", "a@example.com", "A")
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRouter(RouterDeps{
		Config:      config.Config{AnalysisRateRPS: 0.1, AnalysisRateBurst: 1},
		Tokens:      issuer,
		Health:      health.NewService(nil),
		JobHandler:  jobs.NewHandler(&jobs.Service{Repo: jobs.NewMemoryRepo(), Parser: stubJobParser{}}),
		RateLimiter: middleware.NewRateLimiter(func() time.Time { return now }),
	})
	return r, token
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"database":"memory"}`, resp.Body.String())
}

func TestMetricsIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "comparisons_completed_total")
}

func TestAnalysisRoutesAreRateLimited(t *testing.T) {
	r, token := newTestRouter(t)

	call := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	assert.Equal(t, http.StatusCreated, call(http.MethodPost, "/api/v1/jobs", `{"jobText":"Engineer"}`))
	assert.Equal(t, http.StatusTooManyRequests, call(http.MethodPost, "/api/v1/jobs", `{"jobText":"Engineer"}`))
	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/v1/jobs", ""))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
