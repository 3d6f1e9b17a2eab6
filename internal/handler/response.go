package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"candix/internal/domain"
	"candix/internal/middleware"
	"candix/internal/service"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Validation faults are 400, budget overruns 408, structural document
// corruption 422, downstream dependency failures 503 (bucketed by message),
// everything else 500.
func MapDomainError(err error) (status int, code, msg string) {
	var missing *domain.MissingFieldError
	if errors.As(err, &missing) {
		return http.StatusBadRequest, "MISSING_FIELD", "missing required field: " + missing.Field
	}

	switch {
	case errors.Is(err, domain.ErrMissingBoundary):
		return http.StatusBadRequest, "MISSING_BOUNDARY", "multipart boundary not found in content type"
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, "MISSING_FILE", "no valid file part found in upload"
	case errors.Is(err, domain.ErrEmptyBody):
		return http.StatusBadRequest, "EMPTY_BODY", "request body is empty"
	case errors.Is(err, domain.ErrInvalidEncoding):
		return http.StatusBadRequest, "INVALID_ENCODING", "request body could not be decoded"
	case errors.Is(err, domain.ErrInvalidJSON):
		return http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON"
	case errors.Is(err, domain.ErrFileTooSmall):
		return http.StatusBadRequest, "FILE_TOO_SMALL", "uploaded file is too small to be a document"
	case errors.Is(err, domain.ErrNoExtractableText):
		return http.StatusBadRequest, "NO_EXTRACTABLE_TEXT", "no extractable text found in document"
	case errors.Is(err, domain.ErrJobMissingContent):
		return http.StatusBadRequest, "JOB_MISSING_CONTENT", "job description requires either text or a file upload"
	case errors.Is(err, domain.ErrUnsupportedUpload):
		return http.StatusBadRequest, "UNSUPPORTED_UPLOAD", "request shape is not a supported upload"
	case errors.Is(err, domain.ErrProcessingTimeout):
		return http.StatusRequestTimeout, "PROCESSING_TIMEOUT", "processing budget exceeded; retry the request"
	case errors.Is(err, domain.ErrInvalidPDF):
		return http.StatusUnprocessableEntity, "DOCUMENT_CORRUPTED", "file is not a valid PDF document"
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "JOB_NOT_FOUND", "job description not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrUploadFailed), errors.Is(err, domain.ErrIndexFailed):
		return http.StatusServiceUnavailable, dependencyCode(err), "a downstream dependency failed; retry the request"
	}

	if code := dependencyCode(err); code != "" {
		return http.StatusServiceUnavailable, code, "a downstream dependency failed; retry the request"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
}

// dependencyCode buckets downstream failures by error message. Empty when the
// message matches no known dependency.
func dependencyCode(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "storage") || strings.Contains(msg, "s3"):
		return "STORAGE_UNAVAILABLE"
	case strings.Contains(msg, "search") || strings.Contains(msg, "index"):
		return "SEARCH_UNAVAILABLE"
	case strings.Contains(msg, "provider") || strings.Contains(msg, "gemini") || strings.Contains(msg, "claude"):
		return "AI_UNAVAILABLE"
	case strings.Contains(msg, "pdf"):
		return "PDF_PROCESSING_FAILED"
	default:
		return ""
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Budget overruns get a distinct payload naming the stage reached and the
// stages completed, so partial completion is visible to the caller.
func HandleError(c *gin.Context, err error) {
	var timeout *service.TimeoutError
	if errors.As(err, &timeout) {
		c.JSON(http.StatusRequestTimeout, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "PROCESSING_TIMEOUT",
				Message: timeout.Error(),
				Details: gin.H{
					"stage":            timeout.Stage,
					"completed_stages": timeout.Completed,
				},
			},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID := c.GetString(middleware.ContextKeyRequestID)
		log.Printf("handler.HandleError: [%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
