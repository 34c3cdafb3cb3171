package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"graphlink/internal/gqlrequest"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	tp.RegisterSpanProcessor(recorder)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func TestGraphQLTracingMiddleware_SkipsWithoutAnalysis(t *testing.T) {
	recorder := installSpanRecorder(t)

	var handlerSpanValid bool
	handler := GraphQLTracingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerSpanValid = trace.SpanFromContext(r.Context()).SpanContext().IsValid()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/graphql", nil))

	if handlerSpanValid {
		t.Error("no span should be started for a request without analysis")
	}
	if spans := recorder.Ended(); len(spans) != 0 {
		t.Errorf("got %d ended spans, want 0", len(spans))
	}
}

func TestGraphQLTracingMiddleware_StartsExecuteSpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	var handlerSpanValid bool
	handler := GraphQLTracingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerSpanValid = trace.SpanFromContext(r.Context()).SpanContext().IsValid()
	}))

	analysis := gqlrequest.AnalyzeEnvelope(gqlrequest.Envelope{
		Query:             `query Listing { parents { pk name } }`,
		DocumentSizeBytes: 38,
	})
	req := httptest.NewRequest("POST", "/graphql", nil)
	ctx := gqlrequest.WithAnalysis(req.Context(), analysis)
	ctx = gqlrequest.WithExecMeta(ctx, gqlrequest.MetaFromAnalysis(analysis))
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !handlerSpanValid {
		t.Error("handler should run inside the graphql.execute span")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d ended spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "graphql.execute" {
		t.Errorf("span name = %q, want %q", span.Name(), "graphql.execute")
	}

	var sawOperationName bool
	for _, attr := range span.Attributes() {
		if string(attr.Key) == "graphql.operation.name" && attr.Value.AsString() == "Listing" {
			sawOperationName = true
		}
	}
	if !sawOperationName {
		t.Error("span is missing the graphql.operation.name attribute")
	}
}
