package observability

import (
	"context"
	"log/slog"

	"graphlink/internal/gqlrequest"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GraphQLSpanAttributes builds canonical span attributes from request
// analysis. Zero-valued fields are omitted so failed analyses still
// contribute whatever was learned before the failure.
func GraphQLSpanAttributes(analysis *gqlrequest.Analysis, meta gqlrequest.ExecMeta) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 10)

	if analysis != nil {
		if analysis.RequestedOperationName != "" {
			attrs = append(attrs, attribute.String("graphql.operation.requested_name", analysis.RequestedOperationName))
		}
		if analysis.Envelope.DocumentSizeBytes > 0 {
			attrs = append(attrs, attribute.Int("graphql.document.size_bytes", analysis.Envelope.DocumentSizeBytes))
		}
		if analysis.Operation != nil {
			attrs = append(attrs,
				attribute.Int("graphql.query.field_count", analysis.FieldCount),
				attribute.Int("graphql.query.depth", analysis.SelectionDepth),
				attribute.Int("graphql.query.variable_count", analysis.VariableCount),
			)
		}
	}

	if meta.OperationName != "" {
		attrs = append(attrs, attribute.String("graphql.operation.name", meta.OperationName))
	}
	if meta.OperationType != "" {
		attrs = append(attrs, attribute.String("graphql.operation.type", meta.OperationType))
	}
	if meta.OperationHash != "" {
		attrs = append(attrs, attribute.String("graphql.operation.hash", meta.OperationHash))
	}

	return attrs
}

// GraphQLLogFields builds canonical structured log fields from request
// analysis, including the active trace ID when one exists.
func GraphQLLogFields(ctx context.Context, analysis *gqlrequest.Analysis, meta gqlrequest.ExecMeta) []any {
	fields := make([]any, 0, 6)

	if analysis != nil && analysis.RequestedOperationName != "" {
		fields = append(fields, slog.String("operation_requested_name", analysis.RequestedOperationName))
	}
	if meta.OperationName != "" {
		fields = append(fields, slog.String("operation_name", meta.OperationName))
	}
	if meta.OperationType != "" {
		fields = append(fields, slog.String("operation_type", meta.OperationType))
	}
	if meta.OperationHash != "" {
		fields = append(fields, slog.String("operation_hash", meta.OperationHash))
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		fields = append(fields, slog.String("trace_id", spanCtx.TraceID().String()))
	}

	return fields
}
