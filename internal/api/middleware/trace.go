package middleware

import (
	"log/slog"
	"net/http"

	"github.com/kanaptse/eduparent-api/internal/api/shared"
	"github.com/kanaptse/eduparent-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and installs a
// trace-scoped logger so downstream code logging via logger.FromContext
// carries the ID. Apply it early in the chain.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		requestLogger := logger.FromContext(ctx).With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, requestLogger)

		requestLogger.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
