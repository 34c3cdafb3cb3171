package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"graphlink/internal/gqlrequest"
	"graphlink/internal/logging"
	"graphlink/internal/observability"

	"go.opentelemetry.io/otel"
)

// GraphQLTracingMiddleware opens a graphql.execute span around the
// GraphQL handler and threads the trace and span IDs into the
// request-scoped logger. Requests without a query, such as GraphiQL
// page loads, pass through untraced.
func GraphQLTracingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			analysis := gqlrequest.AnalysisFromContext(r.Context())
			if analysis == nil || strings.TrimSpace(analysis.Envelope.Query) == "" {
				next.ServeHTTP(w, r)
				return
			}
			meta, _ := gqlrequest.ExecMetaFromContext(r.Context())

			tracer := otel.Tracer("graphlink/graphql")
			ctx, span := tracer.Start(r.Context(), "graphql.execute")
			defer span.End()

			if spanCtx := span.SpanContext(); spanCtx.IsValid() {
				reqLogger := logging.FromContext(ctx).WithFields(
					slog.String("trace_id", spanCtx.TraceID().String()),
					slog.String("span_id", spanCtx.SpanID().String()),
				)
				ctx = logging.WithLogger(ctx, reqLogger)
			}

			if span.IsRecording() {
				span.SetAttributes(observability.GraphQLSpanAttributes(analysis, meta)...)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
