package jobs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/analysis"
)

func newTestRouter(parser *stubParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := &Service{Repo: NewMemoryRepo(), Parser: parser}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-Test-User"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func send(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestJobLifecycle(t *testing.T) {
	r := newTestRouter(&stubParser{facts: analysis.JobFacts{Title: "Go Engineer", RequiredSkills: []string{"Go"}}})

	resp := send(r, http.MethodPost, "/api/v1/jobs", "user-1", `{"jobText":"Go Engineer\nAcme"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		Job Job `json:"jobDescription"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, UnknownCompany, created.Job.Company)

	resp = send(r, http.MethodGet, "/api/v1/jobs", "user-1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), created.Job.ID)

	resp = send(r, http.MethodGet, "/api/v1/jobs/"+created.Job.ID, "user-2", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = send(r, http.MethodPut, "/api/v1/jobs/"+created.Job.ID, "user-1", `{"company":"Acme"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"company":"Acme"`)
	assert.Contains(t, resp.Body.String(), `"title":"Go Engineer"`)

	resp = send(r, http.MethodDelete, "/api/v1/jobs/"+created.Job.ID, "user-1", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = send(r, http.MethodGet, "/api/v1/jobs/"+created.Job.ID, "user-1", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateJobRequiresText(t *testing.T) {
	r := newTestRouter(&stubParser{})
	resp := send(r, http.MethodPost, "/api/v1/jobs", "user-1", `{"jobText":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExtractSkills(t *testing.T) {
	r := newTestRouter(&stubParser{skills: analysis.SkillSet{RequiredSkills: []string{"Go"}, PreferredSkills: []string{}}})

	resp := send(r, http.MethodPost, "/api/v1/skills/extract", "user-1", `{"text":"We need Go"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"required_skills":["Go"],"preferred_skills":[]}`, resp.Body.String())

	resp = send(r, http.MethodPost, "/api/v1/skills/extract", "user-1", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
