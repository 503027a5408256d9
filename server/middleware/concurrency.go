package middleware

import (
	"net/http"

	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/resilience"
)

// ConcurrencyLimit holds a bulkhead slot for the duration of each request.
// Requests that cannot get a slot in time are answered 503 "server busy".
func ConcurrencyLimit(b *resilience.Bulkhead, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := b.Acquire(r.Context())
			if err != nil {
				if resilience.IsRejected(err) {
					log.WithContext(r.Context()).Warn("Request rejected", logger.Fields(
						"path", r.URL.Path,
						"in_use", b.InUse(),
						logger.FieldError, err.Error(),
					))
				}
				writeError(w, http.StatusServiceUnavailable, "server busy")
				return
			}
			defer release()
			next.ServeHTTP(w, r)
		})
	}
}
