// Package ingest recovers usable upload payloads from requests relayed by an
// HTTP gateway. Gateways that proxy binary bodies through a string layer can
// corrupt them; this package reconstructs the original bytes, classifies the
// request shape, and decodes multipart form data defensively.
package ingest

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Request is the transport-neutral shape of an inbound request: headers with
// case-insensitive lookup, a body that may be a string or raw bytes, and a
// flag indicating the gateway base64-encoded the body before relaying it.
type Request struct {
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	RawBody         []byte            `json:"-"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Header returns the first header whose name matches key case-insensitively.
func (r *Request) Header(key string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// ContentType returns the Content-Type header, lowercased.
func (r *Request) ContentType() string {
	return strings.ToLower(r.Header("Content-Type"))
}

var boundaryRe = regexp.MustCompile(`(?i)boundary=([^;,\s]+)`)

// Boundary extracts the multipart boundary parameter from the Content-Type
// header. Surrounding quotes are stripped. Empty when absent.
func (r *Request) Boundary() string {
	m := boundaryRe.FindStringSubmatch(r.Header("Content-Type"))
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], `"`)
}

// Payload resolves the request body into the tagged union the reconstructor
// consumes. RawBody wins when set (direct uploads); otherwise the string body
// is carried with its encoding flag.
func (r *Request) Payload() Payload {
	if r.RawBody != nil {
		return Payload{Bytes: r.RawBody}
	}
	return Payload{Text: r.Body, IsText: true, PreEncoded: r.IsBase64Encoded}
}

// StorageEvent is the bucket-notification shape some deployments deliver
// instead of a direct upload.
type StorageEvent struct {
	Records []StorageRecord `json:"Records"`
}

// StorageRecord is one bucket/object descriptor within a StorageEvent.
type StorageRecord struct {
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// parseStorageEvent attempts to read the body as a bucket notification.
// Returns nil when the shape does not match.
func parseStorageEvent(body []byte) *StorageEvent {
	var ev StorageEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil
	}
	if len(ev.Records) == 0 || ev.Records[0].S3.Bucket.Name == "" {
		return nil
	}
	return &ev
}
