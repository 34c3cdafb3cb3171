package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"

	"graphlink/internal/logging"
	"graphlink/internal/model"
	"graphlink/internal/observability"
	"graphlink/internal/registry"
)

// UnresolvedAliasError reports an edge argument that names no
// registered result in the current execution.
type UnresolvedAliasError struct {
	Role  string
	Alias string
}

func (e *UnresolvedAliasError) Error() string {
	return fmt.Sprintf("%s alias not found: %q", e.Role, e.Alias)
}

// TypeMismatchError reports an edge argument whose registered result
// has the wrong node kind for its position.
type TypeMismatchError struct {
	Role     string
	Alias    string
	Expected model.Kind
	Actual   model.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s alias %q expects a %s, got %s", e.Role, e.Alias, e.Expected, e.Actual)
}

// edgeEndpoint names one argument of an edge mutation and the node kind
// its alias must resolve to.
type edgeEndpoint struct {
	arg  string
	kind model.Kind
}

type linkFunc func(ctx context.Context, firstPK, secondPK int) error

// makeEdgeResolver builds a resolver that looks up both aliases in the
// execution's registry, checks both kinds, and only then applies the
// link. Aliases defined later in the document are not visible; there is
// no reordering or retry.
func (r *Resolver) makeEdgeResolver(name string, first, second edgeEndpoint, link linkFunc) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (result interface{}, err error) {
		ctx, span := startResolverSpan(p.Context, "graphql.mutation."+name,
			attribute.String("graphql.edge.first_alias", aliasArg(p.Args, first.arg)),
			attribute.String("graphql.edge.second_alias", aliasArg(p.Args, second.arg)))
		p.Context = ctx
		defer func() {
			outcome := edgeOutcome(err)
			if m := observability.GraphQLMetricsFromContext(ctx); m != nil {
				m.RecordEdgeLink(ctx, name, outcome)
			}
			finishResolverSpan(span, err, outcome)
			span.End()
		}()

		reg := registry.FromContext(ctx)
		firstRec, err := lookupEndpoint(reg, p.Args, first)
		if err != nil {
			return nil, err
		}
		secondRec, err := lookupEndpoint(reg, p.Args, second)
		if err != nil {
			return nil, err
		}
		if err := checkEndpointKind(first, firstRec, p.Args); err != nil {
			return nil, err
		}
		if err := checkEndpointKind(second, secondRec, p.Args); err != nil {
			return nil, err
		}
		if err := link(ctx, firstRec.PrimaryKey(), secondRec.PrimaryKey()); err != nil {
			return nil, err
		}

		logging.FromContext(ctx).Debug("edge linked",
			slog.String("edge", name),
			slog.Int("first_pk", firstRec.PrimaryKey()),
			slog.Int("second_pk", secondRec.PrimaryKey()))
		return map[string]interface{}{"ok": true}, nil
	}
}

func aliasArg(args map[string]interface{}, name string) string {
	alias, _ := args[name].(string)
	return alias
}

func lookupEndpoint(reg *registry.Registry, args map[string]interface{}, ep edgeEndpoint) (model.Record, error) {
	alias := aliasArg(args, ep.arg)
	if reg == nil {
		return nil, &UnresolvedAliasError{Role: ep.arg, Alias: alias}
	}
	rec, err := reg.Lookup(alias)
	if err != nil {
		return nil, &UnresolvedAliasError{Role: ep.arg, Alias: alias}
	}
	return rec, nil
}

func checkEndpointKind(ep edgeEndpoint, rec model.Record, args map[string]interface{}) error {
	if rec.Kind() != ep.kind {
		return &TypeMismatchError{
			Role:     ep.arg,
			Alias:    aliasArg(args, ep.arg),
			Expected: ep.kind,
			Actual:   rec.Kind(),
		}
	}
	return nil
}

func edgeOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var unresolved *UnresolvedAliasError
	if errors.As(err, &unresolved) {
		return "unresolved_alias"
	}
	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) {
		return "type_mismatch"
	}
	return "error"
}
