package analyses

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/paging"
	"resume-matcher/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses/compare/:resumeId/:jobId", h.compare)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/summary", h.summary)
	rg.GET("/analyses/:id", h.get)
	rg.DELETE("/analyses/:id", h.delete)
}

func (h *Handler) compare(c *gin.Context) {
	resumeID := strings.TrimSpace(c.Param("resumeId"))
	jobID := strings.TrimSpace(c.Param("jobId"))
	c.Set("resumeId", resumeID)
	c.Set("jobId", jobID)

	a, err := h.Svc.Compare(c.Request.Context(), middleware.UserIDFromContext(c), resumeID, jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("analysisId", a.ID)
	respond.OK(c, gin.H{
		"message":  "Analysis completed successfully",
		"analysis": a,
	})
}

func (h *Handler) list(c *gin.Context) {
	page := paging.FromQuery(c)
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), page.Limit, page.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"analyses":   items,
		"pagination": page,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("analysisId", id)
	detail, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"analysis": detail})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("analysisId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Analysis deleted successfully"})
}

func (h *Handler) summary(c *gin.Context) {
	resumeID := strings.TrimSpace(c.Query("resumeId"))
	if resumeID != "" {
		c.Set("resumeId", resumeID)
	}
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, summary)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSourceNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume or job description not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Unauthorized", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "request_timeout", "Request was cancelled before it completed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}
