package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"candix/internal/domain"
	"candix/internal/ingest"
	"candix/internal/service"
)

// maxBodyBytes caps inbound upload bodies at 15 MB.
const maxBodyBytes = 15 << 20

// ResumeHandler handles resume upload endpoints.
type ResumeHandler struct {
	pipeline *service.Pipeline
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(pipeline *service.Pipeline) *ResumeHandler {
	return &ResumeHandler{pipeline: pipeline}
}

// Upload handles POST /api/v1/resumes. The body is raw multipart form data;
// bytes are passed through untouched so transport loss cannot occur here.
func (h *ResumeHandler) Upload(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_BODY", "request body could not be read")
		return
	}

	req := &ingest.Request{
		Headers: singleValueHeaders(c.Request.Header),
		RawBody: body,
	}

	out, err := h.pipeline.Process(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// Ingest handles POST /api/v1/ingest: a gateway relay envelope whose string
// body may carry lossy or base64-encoded binary content, or a storage event
// notification.
func (h *ResumeHandler) Ingest(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_BODY", "request body could not be read")
		return
	}

	var req ingest.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		HandleError(c, domain.ErrInvalidJSON)
		return
	}
	if req.Body == "" && len(req.Headers) == 0 {
		// Not an envelope; treat the posted JSON itself as the body. Storage
		// event notifications arrive this way.
		req.Body = string(raw)
	}

	out, err := h.pipeline.Process(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// singleValueHeaders flattens an http.Header into the first-value map the
// ingest package consumes.
func singleValueHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}
