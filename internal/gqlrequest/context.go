package gqlrequest

import "context"

type analysisContextKey struct{}
type execMetaContextKey struct{}

// ExecMeta is the small, copyable subset of request analysis that later
// layers attach to spans and log lines.
type ExecMeta struct {
	OperationName string
	OperationType string
	OperationHash string
}

// WithAnalysis stores the request analysis on the context.
func WithAnalysis(ctx context.Context, a *Analysis) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, analysisContextKey{}, a)
}

// AnalysisFromContext returns the stored analysis, or nil when the
// request never went through the analysis middleware.
func AnalysisFromContext(ctx context.Context) *Analysis {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(analysisContextKey{}).(*Analysis)
	return a
}

// WithExecMeta stores execution metadata on the context.
func WithExecMeta(ctx context.Context, meta ExecMeta) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, execMetaContextKey{}, meta)
}

// ExecMetaFromContext returns the stored execution metadata.
func ExecMetaFromContext(ctx context.Context) (ExecMeta, bool) {
	if ctx == nil {
		return ExecMeta{}, false
	}
	meta, ok := ctx.Value(execMetaContextKey{}).(ExecMeta)
	return meta, ok
}

// MetaFromAnalysis projects an analysis down to its ExecMeta.
func MetaFromAnalysis(a *Analysis) ExecMeta {
	if a == nil {
		return ExecMeta{}
	}
	return ExecMeta{
		OperationName: a.OperationName,
		OperationType: a.OperationType,
		OperationHash: a.OperationHash,
	}
}
