package resolver

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func startResolverSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("graphlink/resolver")
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// finishResolverSpan records the resolver outcome on the span. Callers
// that distinguish outcomes pass one explicitly; otherwise it defaults
// to success or error based on err.
func finishResolverSpan(span trace.Span, err error, outcome string) {
	if outcome == "" {
		if err != nil {
			outcome = "error"
		} else {
			outcome = "success"
		}
	}
	span.SetAttributes(attribute.String("graphql.resolver.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
