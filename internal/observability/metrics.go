package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GraphQLMetrics holds the custom instruments for GraphQL traffic and
// the mutation-linking domain: how many node records root mutations
// register and how edge mutations resolve.
type GraphQLMetrics struct {
	requestDuration metric.Float64Histogram
	requestCounter  metric.Int64Counter
	errorCounter    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	queryDepth      metric.Int64Histogram
	resultsCount    metric.Int64Histogram
	aliasesRecorded metric.Int64Counter
	edgesLinked     metric.Int64Counter
}

// InitGraphQLMetrics initializes the custom instruments.
func InitGraphQLMetrics() (*GraphQLMetrics, error) {
	meter := otel.Meter("graphlink")

	requestDuration, err := meter.Float64Histogram(
		"graphql.request.duration",
		metric.WithDescription("Duration of GraphQL requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	requestCounter, err := meter.Int64Counter(
		"graphql.requests.total",
		metric.WithDescription("Total number of GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	errorCounter, err := meter.Int64Counter(
		"graphql.errors.total",
		metric.WithDescription("Total number of GraphQL requests with errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"graphql.requests.active",
		metric.WithDescription("Number of in-flight GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active requests counter: %w", err)
	}

	queryDepth, err := meter.Int64Histogram(
		"graphql.query.depth",
		metric.WithDescription("Selection depth of GraphQL operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create query depth histogram: %w", err)
	}

	resultsCount, err := meter.Int64Histogram(
		"graphql.results.count",
		metric.WithDescription("Number of records returned by listing fields"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create results count histogram: %w", err)
	}

	aliasesRecorded, err := meter.Int64Counter(
		"graphql.aliases.recorded",
		metric.WithDescription("Node records registered under a mutation alias"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliases recorded counter: %w", err)
	}

	edgesLinked, err := meter.Int64Counter(
		"graphql.edges.linked",
		metric.WithDescription("Edge mutation outcomes by edge kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create edges linked counter: %w", err)
	}

	return &GraphQLMetrics{
		requestDuration: requestDuration,
		requestCounter:  requestCounter,
		errorCounter:    errorCounter,
		activeRequests:  activeRequests,
		queryDepth:      queryDepth,
		resultsCount:    resultsCount,
		aliasesRecorded: aliasesRecorded,
		edgesLinked:     edgesLinked,
	}, nil
}

// RecordRequest records a finished GraphQL request with its duration and
// outcome.
func (m *GraphQLMetrics) RecordRequest(ctx context.Context, duration time.Duration, hasErrors bool, operationType string) {
	attrs := []attribute.KeyValue{
		attribute.String("operation_type", operationType),
		attribute.Bool("has_errors", hasErrors),
	}

	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	if hasErrors {
		m.errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation_type", operationType),
		))
	}
}

// RecordQueryDepth records the selection depth of an operation.
func (m *GraphQLMetrics) RecordQueryDepth(ctx context.Context, depth int64, operationType string) {
	m.queryDepth.Record(ctx, depth, metric.WithAttributes(
		attribute.String("operation_type", operationType),
	))
}

// RecordResultsCount records how many records a listing field returned.
func (m *GraphQLMetrics) RecordResultsCount(ctx context.Context, count int64, field string) {
	m.resultsCount.Record(ctx, count, metric.WithAttributes(
		attribute.String("field", field),
	))
}

// RecordAliasRecorded counts a node record registered under an alias.
func (m *GraphQLMetrics) RecordAliasRecorded(ctx context.Context, kind string) {
	m.aliasesRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordEdgeLink counts an edge mutation attempt. The edge attribute is
// the mutation field name and outcome is ok, unresolved_alias,
// type_mismatch, or error.
func (m *GraphQLMetrics) RecordEdgeLink(ctx context.Context, edge, outcome string) {
	m.edgesLinked.Add(ctx, 1, metric.WithAttributes(
		attribute.String("edge", edge),
		attribute.String("outcome", outcome),
	))
}

// IncrementActiveRequests increments the in-flight request counter.
func (m *GraphQLMetrics) IncrementActiveRequests(ctx context.Context) {
	m.activeRequests.Add(ctx, 1)
}

// DecrementActiveRequests decrements the in-flight request counter.
func (m *GraphQLMetrics) DecrementActiveRequests(ctx context.Context) {
	m.activeRequests.Add(ctx, -1)
}

// InitMetrics initializes all custom metrics.
func InitMetrics(logger *slog.Logger) (*GraphQLMetrics, error) {
	metrics, err := InitGraphQLMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GraphQL metrics: %w", err)
	}

	logger.Info("custom GraphQL metrics initialized")
	return metrics, nil
}

type graphQLMetricsContextKey struct{}

// ContextWithGraphQLMetrics stores the metrics handle on the context so
// resolvers can record domain counters without a direct dependency.
func ContextWithGraphQLMetrics(ctx context.Context, metrics *GraphQLMetrics) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, graphQLMetricsContextKey{}, metrics)
}

// GraphQLMetricsFromContext retrieves the metrics handle, or nil when
// metrics are disabled.
func GraphQLMetricsFromContext(ctx context.Context) *GraphQLMetrics {
	if ctx == nil {
		return nil
	}
	metrics, _ := ctx.Value(graphQLMetricsContextKey{}).(*GraphQLMetrics)
	return metrics
}
