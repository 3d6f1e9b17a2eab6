package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"candix/internal/ingest"
	"candix/internal/service"
)

// JobHandler handles job description endpoints.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/jobs. JSON bodies carry the description as
// text; multipart bodies carry a PDF that goes through the extraction chain.
func (h *JobHandler) Create(c *gin.Context) {
	input := &service.JobIngestInput{}

	if strings.Contains(c.ContentType(), "application/json") {
		var req createJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
			return
		}
		input.Title = req.Title
		input.Description = req.Description
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_BODY", "request body could not be read")
			return
		}
		input.Request = &ingest.Request{
			Headers: singleValueHeaders(c.Request.Header),
			RawBody: body,
		}
	}

	out, err := h.jobs.Ingest(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, out)
}

// Get handles GET /api/v1/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "job id must be a UUID")
		return
	}

	rec, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// List handles GET /api/v1/jobs
func (h *JobHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	recs, total, err := h.jobs.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, recs, PagMeta{Total: total, Offset: offset, Limit: limit})
}
