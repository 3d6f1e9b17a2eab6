package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"candix/internal/report"
	"candix/internal/service"
)

// MatchHandler handles match query endpoints.
type MatchHandler struct {
	matches *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matches *service.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

func parseMatchQuery(c *gin.Context) service.MatchQuery {
	q := service.MatchQuery{JobID: c.Param("id")}
	if v, err := strconv.Atoi(c.DefaultQuery("top_k", "0")); err == nil && v > 0 {
		q.TopK = v
	}
	if v, err := strconv.ParseFloat(c.DefaultQuery("min_score", "0"), 64); err == nil && v > 0 {
		q.MinScore = v
	}
	return q
}

// List handles GET /api/v1/jobs/:id/matches
func (h *MatchHandler) List(c *gin.Context) {
	results, err := h.matches.Matches(c.Request.Context(), parseMatchQuery(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"job_id": c.Param("id"), "matches": results, "count": len(results)})
}

// Export handles GET /api/v1/jobs/:id/matches/export
func (h *MatchHandler) Export(c *gin.Context) {
	q := parseMatchQuery(c)
	results, err := h.matches.Matches(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := report.MatchesXLSX(q.JobID, results)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("matches-%s.xlsx", q.JobID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
