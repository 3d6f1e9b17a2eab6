package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMissingBoundary   = errors.New("no boundary found in Content-Type header")
	ErrMissingFile       = errors.New("no resume file found in multipart data")
	ErrEmptyBody         = errors.New("request body is empty")
	ErrInvalidEncoding   = errors.New("failed to decode base64 body")
	ErrInvalidJSON       = errors.New("invalid JSON input")
	ErrInvalidPDF        = errors.New("invalid PDF file - missing PDF header")
	ErrFileTooSmall      = errors.New("file appears to be too small or corrupted")
	ErrNoExtractableText = errors.New("no extractable text in document")
	ErrProcessingTimeout = errors.New("processing exceeded time budget")
	ErrUploadFailed      = errors.New("file upload to storage failed")
	ErrIndexFailed       = errors.New("document indexing failed")
	ErrJobNotFound       = errors.New("job description not found")
	ErrJobMissingContent = errors.New("job description has no content")
	ErrUnsupportedUpload = errors.New("unsupported upload content type")
)

// MissingFieldError reports a required multipart field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// IsMissingField reports whether err carries a MissingFieldError and returns
// the field name.
func IsMissingField(err error) (string, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf.Field, true
	}
	return "", false
}
