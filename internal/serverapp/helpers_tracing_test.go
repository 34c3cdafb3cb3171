package serverapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installSpanRecorder swaps the global tracer provider for one backed by
// an in-memory recorder and restores the original on cleanup.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	provider.RegisterSpanProcessor(recorder)

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return recorder
}

func TestWrapHTTPHandler_UsesHTTPRootSpanName(t *testing.T) {
	recorder := installSpanRecorder(t)

	cfg := testConfig()
	cfg.Observability.TracingEnabled = true

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := wrapHTTPHandler(cfg, testLogger(), inner)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	found := false
	for _, span := range recorder.Ended() {
		if span.Name() == "GET /health" {
			found = true
			break
		}
	}
	if !found {
		names := make([]string, 0, len(recorder.Ended()))
		for _, span := range recorder.Ended() {
			names = append(names, span.Name())
		}
		t.Fatalf("expected span named %q, got %v", "GET /health", names)
	}
}

func TestWrapHTTPHandler_TracingDisabledSkipsInstrumentation(t *testing.T) {
	recorder := installSpanRecorder(t)

	cfg := testConfig()
	cfg.Observability.TracingEnabled = false
	cfg.Observability.MetricsEnabled = false

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := wrapHTTPHandler(cfg, testLogger(), inner)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if len(recorder.Ended()) != 0 {
		t.Fatalf("expected no spans with instrumentation disabled, got %d", len(recorder.Ended()))
	}
}

func TestNormalizeHTTPSpanRoute(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{path: "/", want: "/"},
		{path: "/graphql", want: "/graphql"},
		{path: "/health", want: "/health"},
		{path: "/metrics", want: "/metrics"},
		{path: "/admin/reset-store", want: "/admin/reset-store"},
		{path: "/users/123", want: "/*"},
		{path: "", want: "/*"},
	}

	for _, tc := range cases {
		if got := normalizeHTTPSpanRoute(tc.path); got != tc.want {
			t.Errorf("normalizeHTTPSpanRoute(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestHTTPRootSpanName_NilRequest(t *testing.T) {
	if got := httpRootSpanName(nil); got != "HTTP /*" {
		t.Fatalf("httpRootSpanName(nil) = %q, want %q", got, "HTTP /*")
	}
}
