package httptransport

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"clinica/pkg/requestcontext"
)

// RequestMetadata stamps each request with an id and a single request time.
// Services take every timestamp from the context, so one request observes one
// instant.
func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
