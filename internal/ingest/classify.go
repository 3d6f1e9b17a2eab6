package ingest

import (
	"encoding/json"
	"log"
	"strings"

	"candix/internal/domain"
)

// Classify decides how an inbound request delivered its payload: a storage
// bucket notification, structured JSON, or a multipart file upload. The
// default is permissive JSON; downstream parsing raises a clear validation
// error if that guess was wrong.
func Classify(req *Request) domain.InputKind {
	if ev := parseStorageEvent(bodyBytes(req)); ev != nil {
		return domain.InputStorageEvent
	}

	ct := req.ContentType()
	if strings.Contains(ct, "application/json") {
		return domain.InputJSON
	}
	if strings.Contains(ct, "multipart/form-data") {
		return domain.InputMultipart
	}

	if body := bodyBytes(req); len(body) > 0 && json.Valid(body) {
		return domain.InputJSON
	}
	if strings.Contains(ct, "boundary=") {
		return domain.InputMultipart
	}
	return domain.InputJSON
}

// bodyBytes gives a cheap view of the body for shape sniffing only. The
// reconstructor owns authoritative byte recovery.
func bodyBytes(req *Request) []byte {
	if req.RawBody != nil {
		return req.RawBody
	}
	return []byte(req.Body)
}

// ParseStorageEvent extracts the bucket and key from a storage notification.
// Keys ending in .txt are generated artifacts and are skipped (empty return)
// to prevent reprocessing loops.
func ParseStorageEvent(req *Request) (bucket, key string, ok bool) {
	ev := parseStorageEvent(bodyBytes(req))
	if ev == nil {
		return "", "", false
	}
	rec := ev.Records[0]
	bucket = rec.S3.Bucket.Name
	key = rec.S3.Object.Key
	if strings.HasSuffix(key, ".txt") {
		log.Printf("ingest.ParseStorageEvent: skipping generated artifact %s to prevent recursion", key)
		return bucket, "", true
	}
	return bucket, key, true
}
