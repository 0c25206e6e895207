package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RentalGo/pkg/logger"
)

// RequestLogger stores a logger enriched with correlation_id, visitor_id,
// trace_id and span_id in the request context; handlers fetch it with
// logger.FromContext.
//
// Mount it after RequestLogging, Tracing and Visitor so those fields exist.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
