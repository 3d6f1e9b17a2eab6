package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"candix/internal/domain"
	"candix/internal/ingest"
)

func TestRequest_HeaderCaseInsensitive(t *testing.T) {
	req := &ingest.Request{Headers: map[string]string{
		"content-type": "multipart/form-data; boundary=abc",
	}}

	assert.Equal(t, "multipart/form-data; boundary=abc", req.Header("Content-Type"))
	assert.Equal(t, "multipart/form-data; boundary=abc", req.Header("CONTENT-TYPE"))
	assert.Equal(t, "", req.Header("Authorization"))
}

func TestRequest_Boundary(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"multipart/form-data; boundary=TESTBOUND123", "TESTBOUND123"},
		{"multipart/form-data; boundary=\"quoted-bound\"", "quoted-bound"},
		{"multipart/form-data; BOUNDARY=UpperCase", "UpperCase"},
		{"multipart/form-data; charset=utf-8; boundary=after-param", "after-param"},
		{"application/json", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := &ingest.Request{Headers: map[string]string{"Content-Type": tc.contentType}}
		assert.Equal(t, tc.want, req.Boundary(), "content type %q", tc.contentType)
	}
}

func TestClassify_Multipart(t *testing.T) {
	req := &ingest.Request{
		Headers: map[string]string{"Content-Type": "multipart/form-data; boundary=x"},
		Body:    "--x\r\n...",
	}
	assert.Equal(t, domain.InputMultipart, ingest.Classify(req))
}

func TestClassify_JSON(t *testing.T) {
	req := &ingest.Request{
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    `{"title":"t"}`,
	}
	assert.Equal(t, domain.InputJSON, ingest.Classify(req))
}

func TestClassify_StorageEvent(t *testing.T) {
	req := &ingest.Request{
		Body: `{"Records":[{"s3":{"bucket":{"name":"uploads"},"object":{"key":"resumes/a.pdf"}}}]}`,
	}
	assert.Equal(t, domain.InputStorageEvent, ingest.Classify(req))
}

func TestClassify_SniffsJSONWithoutContentType(t *testing.T) {
	req := &ingest.Request{Body: `{"anything": true}`}
	assert.Equal(t, domain.InputJSON, ingest.Classify(req))
}

func TestParseStorageEvent_SkipsTextArtifacts(t *testing.T) {
	req := &ingest.Request{
		Body: `{"Records":[{"s3":{"bucket":{"name":"uploads"},"object":{"key":"resumes/a.txt"}}}]}`,
	}

	bucket, key, ok := ingest.ParseStorageEvent(req)

	assert.True(t, ok)
	assert.Equal(t, "uploads", bucket)
	assert.Empty(t, key)
}

func TestParseStorageEvent_NotAnEvent(t *testing.T) {
	req := &ingest.Request{Body: `{"title":"t"}`}

	_, _, ok := ingest.ParseStorageEvent(req)
	assert.False(t, ok)
}
