package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/paging"
	"resume-matcher/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job and skill routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.delete)
	rg.POST("/skills/extract", h.extractSkills)
}

type createRequest struct {
	JobText string `json:"jobText"`
}

type extractRequest struct {
	Text string `json:"text"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	job, facts, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.JobText)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("jobId", job.ID)
	respond.Created(c, "/api/v1/jobs/"+job.ID, gin.H{
		"message":        "Job description created successfully",
		"jobDescription": job,
		"parsed_data":    facts,
	})
}

func (h *Handler) list(c *gin.Context) {
	page := paging.FromQuery(c)
	jobs, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), page.Limit, page.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"jobs": jobs, "pagination": page})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	job, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"job": job})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Job description updated successfully", "job": job})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Job description deleted successfully"})
}

func (h *Handler) extractSkills(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	skills, err := h.Svc.ExtractSkills(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, skills)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, analysis.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Text is required and cannot be empty", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Job description not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Unauthorized", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}
