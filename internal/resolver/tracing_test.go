package resolver

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestUpsertParentResolver_EmitsTracingSpan(t *testing.T) {
	recorder, cleanup := installResolverSpanRecorder(t)
	defer cleanup()

	r, _ := newTestResolver()
	ctx, _ := registryContext()

	_, err := r.makeUpsertParentResolver()(rootMutationParams(ctx, "upsertParent", "n1",
		upsertData(map[string]interface{}{"name": "Emilie"})))
	if err != nil {
		t.Fatalf("upsert resolver returned error: %v", err)
	}

	span := findEndedSpanByName(recorder.Ended(), "graphql.mutation.upsertParent")
	if span == nil {
		t.Fatalf("expected graphql.mutation.upsertParent span")
	}
	if got := readSpanString(span.Attributes(), "graphql.resolver.outcome"); got != "success" {
		t.Fatalf("graphql.resolver.outcome = %q, want success", got)
	}
	if got := readSpanString(span.Attributes(), "graphql.field.alias"); got != "n1" {
		t.Fatalf("graphql.field.alias = %q, want n1", got)
	}
}

func TestExecuteBuildDocument_EmitsEdgeSpans(t *testing.T) {
	recorder, cleanup := installResolverSpanRecorder(t)
	defer cleanup()

	schema, _ := newTestSchema(t)
	result := executeBuildDocument(t, schema)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	span := findEndedSpanByName(recorder.Ended(), "graphql.mutation.setParent")
	if span == nil {
		t.Fatalf("expected graphql.mutation.setParent span")
	}
	if got := readSpanString(span.Attributes(), "graphql.resolver.outcome"); got != "ok" {
		t.Fatalf("graphql.resolver.outcome = %q, want ok", got)
	}
	if got := readSpanString(span.Attributes(), "graphql.edge.first_alias"); got != "n1" {
		t.Fatalf("graphql.edge.first_alias = %q, want n1", got)
	}
	if got := readSpanString(span.Attributes(), "graphql.edge.second_alias"); got != "n2" {
		t.Fatalf("graphql.edge.second_alias = %q, want n2", got)
	}

	if sibling := findEndedSpanByName(recorder.Ended(), "graphql.mutation.addSibling"); sibling == nil {
		t.Fatalf("expected graphql.mutation.addSibling span")
	}
}

func TestEdgeResolver_FailureSpanRecordsOutcome(t *testing.T) {
	recorder, cleanup := installResolverSpanRecorder(t)
	defer cleanup()

	schema, _ := newTestSchema(t)
	result := execute(t, schema, `
mutation {
  e1: setParent(parent: "ghost", child: "phantom") { ok }
}`, nil)
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}

	span := findEndedSpanByName(recorder.Ended(), "graphql.mutation.setParent")
	if span == nil {
		t.Fatalf("expected graphql.mutation.setParent span")
	}
	if got := readSpanString(span.Attributes(), "graphql.resolver.outcome"); got != "unresolved_alias" {
		t.Fatalf("graphql.resolver.outcome = %q, want unresolved_alias", got)
	}
	if got := span.Status().Code; got != codes.Error {
		t.Fatalf("span status = %v, want error", got)
	}
}

func installResolverSpanRecorder(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	tp.RegisterSpanProcessor(recorder)

	oldProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	return recorder, func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(oldProvider)
	}
}

func findEndedSpanByName(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, span := range spans {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

func readSpanString(attrs []attribute.KeyValue, key string) string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}
	return ""
}
