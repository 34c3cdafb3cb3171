package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"graphlink/internal/gqlrequest"
	"graphlink/internal/observability"
)

func TestResponseHasGraphQLErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty body", "", false},
		{"not json", "<html>", false},
		{"data only", `{"data":{"parents":[]}}`, false},
		{"errors null", `{"data":null,"errors":null}`, false},
		{"errors empty", `{"errors":[]}`, false},
		{"errors present", `{"data":null,"errors":[{"message":"parent alias not found: \"n9\""}]}`, true},
		{"partial success", `{"data":{"n1":{"pk":1},"e1":null},"errors":[{"message":"child alias not found: \"n9\""}]}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := responseHasGraphQLErrors([]byte(tc.body)); got != tc.want {
				t.Errorf("responseHasGraphQLErrors(%q) = %t, want %t", tc.body, got, tc.want)
			}
		})
	}
}

func TestMetricsResponseWriter_CapturesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"data":null}`)); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if w.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want %d (first WriteHeader wins)", w.statusCode, http.StatusTeapot)
	}
	if got := w.body.String(); got != `{"data":null}` {
		t.Errorf("captured body = %q", got)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("downstream status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func newTestMetrics(t *testing.T) *observability.GraphQLMetrics {
	t.Helper()
	metrics, err := observability.InitGraphQLMetrics()
	if err != nil {
		t.Fatalf("InitGraphQLMetrics: %v", err)
	}
	return metrics
}

func TestGraphQLMetricsMiddleware_SkipsNonPost(t *testing.T) {
	var sawMetrics bool
	handler := GraphQLMetricsMiddleware(newTestMetrics(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawMetrics = observability.GraphQLMetricsFromContext(r.Context()) != nil
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/graphql", nil))

	if sawMetrics {
		t.Error("GET requests should not carry the metrics handle")
	}
}

func TestGraphQLMetricsMiddleware_InjectsMetricsHandle(t *testing.T) {
	var sawMetrics bool
	handler := GraphQLMetricsMiddleware(newTestMetrics(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawMetrics = observability.GraphQLMetricsFromContext(r.Context()) != nil
		w.Write([]byte(`{"data":{}}`))
	}))

	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{"query":"{parents{pk}}"}`))
	analysis := gqlrequest.AnalyzeEnvelope(gqlrequest.Envelope{Query: "{parents{pk}}"})
	req = req.WithContext(gqlrequest.WithAnalysis(req.Context(), analysis))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !sawMetrics {
		t.Error("resolvers should find the metrics handle on the context")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
