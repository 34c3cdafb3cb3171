package registry

import "context"

type registryContextKey struct{}

// WithRegistry returns a new context carrying the registry.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, registryContextKey{}, reg)
}

// FromContext extracts the registry attached by WithRegistry, or nil when
// the context carries none.
func FromContext(ctx context.Context) *Registry {
	if ctx == nil {
		return nil
	}
	if reg, ok := ctx.Value(registryContextKey{}).(*Registry); ok {
		return reg
	}
	return nil
}
