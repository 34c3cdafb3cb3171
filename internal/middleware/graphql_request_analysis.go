package middleware

import (
	"net/http"

	"graphlink/internal/gqlrequest"
	"graphlink/internal/logging"
	"graphlink/internal/observability"
)

// GraphQLRequestAnalysisMiddleware decodes and analyzes the GraphQL
// request once and stores the result in the request context. The
// metrics and tracing layers below read the analysis instead of
// re-parsing the document.
func GraphQLRequestAnalysisMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			analysis := gqlrequest.AnalyzeRequest(r)
			ctx := gqlrequest.WithAnalysis(r.Context(), analysis)

			meta := gqlrequest.MetaFromAnalysis(analysis)
			ctx = gqlrequest.WithExecMeta(ctx, meta)

			logger := logging.FromContext(ctx)
			logFields := observability.GraphQLLogFields(ctx, analysis, meta)
			if len(logFields) > 0 {
				ctx = logging.WithLogger(ctx, logger.WithFields(logFields...))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
