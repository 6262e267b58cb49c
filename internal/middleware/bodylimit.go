package middleware

import (
	"net/http"
)

// Every body this service accepts is a small JSON document; a chat
// conversation is the largest of them. 1MB leaves generous headroom.
const DefaultMaxBodySize = 1 << 20

// BodyLimitMiddleware rejects oversized request bodies before any handler
// starts decoding them.
type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The declared length is checked up front; MaxBytesReader still
		// covers chunked bodies that never declare one.
		if r.ContentLength > m.maxSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Request body exceeds the allowed size",
			})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
