package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"graphlink/internal/gqlrequest"
	"graphlink/internal/observability"
)

// GraphQLMetricsMiddleware records request metrics around the GraphQL
// handler. It relies on the analysis middleware having classified the
// operation; requests that skipped analysis count as "unknown".
func GraphQLMetricsMiddleware(metrics *observability.GraphQLMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// GraphiQL page loads and other non-POST traffic are not
			// GraphQL executions.
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := observability.ContextWithGraphQLMetrics(r.Context(), metrics)
			r = r.WithContext(ctx)

			metrics.IncrementActiveRequests(ctx)
			defer metrics.DecrementActiveRequests(ctx)

			start := time.Now()

			operationType := "unknown"
			analysis := gqlrequest.AnalysisFromContext(ctx)
			if analysis != nil && analysis.OperationType != "" {
				operationType = analysis.OperationType
			}
			if analysis != nil && analysis.Operation != nil {
				metrics.RecordQueryDepth(ctx, int64(analysis.SelectionDepth), operationType)
			}

			wrapped := &metricsResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			hasErrors := wrapped.statusCode >= 400 || responseHasGraphQLErrors(wrapped.body.Bytes())
			metrics.RecordRequest(ctx, duration, hasErrors, operationType)
		})
	}
}

// metricsResponseWriter captures the status code and body so the
// response can be inspected for GraphQL errors after the handler runs.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	body       bytes.Buffer
}

func (w *metricsResponseWriter) WriteHeader(statusCode int) {
	if !w.written {
		w.statusCode = statusCode
		w.written = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if len(b) > 0 {
		_, _ = w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// responseHasGraphQLErrors reports whether a response body carries a
// non-empty GraphQL errors array. Partial successes still populate the
// array, so they count as errored requests.
func responseHasGraphQLErrors(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return false
	}

	var payload struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return false
	}
	if len(payload.Errors) == 0 {
		return false
	}

	errorsValue := bytes.TrimSpace(payload.Errors)
	if len(errorsValue) == 0 || bytes.Equal(errorsValue, []byte("null")) {
		return false
	}

	var errorsList []json.RawMessage
	if err := json.Unmarshal(errorsValue, &errorsList); err != nil {
		return false
	}
	return len(errorsList) > 0
}
