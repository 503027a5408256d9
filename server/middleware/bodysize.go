package middleware

import (
	"net/http"
)

// BodySizeLimit caps the request body at limit bytes. A declared
// Content-Length above the limit is rejected up front; otherwise reads past
// the limit fail with *http.MaxBytesError. A limit <= 0 disables the check.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusBadRequest, "file too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
