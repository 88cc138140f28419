// Package requesttime provides middleware for request-scoped time.
// Every timestamp generated while handling one request shares the same "now".
package requesttime

import (
	"net/http"
	"time"

	"originate/pkg/requestcontext"
)

// Middleware captures the current UTC time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
