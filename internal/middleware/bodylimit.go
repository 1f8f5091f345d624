package middleware

import "net/http"

// MaxBodySize returns a middleware that caps the request body at the
// given number of bytes. Reads past the limit fail inside the handler,
// which surfaces as a decode error rather than unbounded memory use.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
