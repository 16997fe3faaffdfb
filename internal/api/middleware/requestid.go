package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

const maxRequestIDLen = 128

// RequestID ensures each request has an ID in context and response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// GetRequestID returns the request id from context.
func GetRequestID(ctx context.Context) string {
	return logger.RequestID(ctx)
}
