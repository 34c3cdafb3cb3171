package registry

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

const extensionName = "ResultRegistry"

// Extension seeds a fresh Registry into the execution context at the start
// of every GraphQL execution. Registering it on the schema covers every
// entry point, the HTTP handler and direct graphql.Do calls alike, so
// resolvers can rely on FromContext succeeding.
type Extension struct{}

// Init attaches a new, empty registry to the execution context.
func (Extension) Init(ctx context.Context, _ *graphql.Params) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return WithRegistry(ctx, New())
}

// Name identifies the extension on the schema.
func (Extension) Name() string {
	return extensionName
}

// ParseDidStart is a no-op.
func (Extension) ParseDidStart(ctx context.Context) (context.Context, graphql.ParseFinishFunc) {
	return ctx, func(error) {}
}

// ValidationDidStart is a no-op.
func (Extension) ValidationDidStart(ctx context.Context) (context.Context, graphql.ValidationFinishFunc) {
	return ctx, func([]gqlerrors.FormattedError) {}
}

// ExecutionDidStart is a no-op.
func (Extension) ExecutionDidStart(ctx context.Context) (context.Context, graphql.ExecutionFinishFunc) {
	return ctx, func(*graphql.Result) {}
}

// ResolveFieldDidStart is a no-op.
func (Extension) ResolveFieldDidStart(ctx context.Context, _ *graphql.ResolveInfo) (context.Context, graphql.ResolveFieldFinishFunc) {
	return ctx, func(interface{}, error) {}
}

// HasResult reports that the extension contributes nothing to the response.
func (Extension) HasResult() bool {
	return false
}

// GetResult returns nothing.
func (Extension) GetResult(context.Context) interface{} {
	return nil
}
