package testutil

import (
	"net/http"
	"time"

	"originate/pkg/requestcontext"
)

// WithRequestID sets the request ID the way the request-id middleware does.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithFixedTime pins the request-scoped clock.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
