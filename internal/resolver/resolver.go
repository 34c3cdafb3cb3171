// Package resolver builds the GraphQL schema for the node graph: upsert
// mutations that register their results in the per-execution result
// registry, edge mutations that link previously registered nodes by
// alias, and queries over the stored records.
package resolver

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"graphlink/internal/model"
	"graphlink/internal/observability"
	"graphlink/internal/registry"
	"graphlink/internal/store"
)

// Resolver wires the node store into GraphQL fields. The GraphQL types
// are built once per Resolver and shared by every schema it produces.
type Resolver struct {
	store *store.Store

	parentType     *graphql.Object
	childType      *graphql.Object
	edgeResultType *graphql.Object
	parentInput    *graphql.InputObject
	childInput     *graphql.InputObject
}

// New creates a resolver over the given store.
func New(st *store.Store) *Resolver {
	r := &Resolver{store: st}
	r.parentInput = buildParentInput()
	r.childInput = buildChildInput()
	r.edgeResultType = buildEdgeResultType()
	r.parentType = buildParentType()
	r.childType = r.buildChildType()
	return r
}

// BuildSchema assembles the executable schema. The result registry
// extension is attached here, so every execution path, the HTTP handler
// and direct graphql.Do calls alike, starts with a fresh registry.
func (r *Resolver) BuildSchema() (graphql.Schema, error) {
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: r.queryFields(),
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: r.mutationFields(),
		}),
		Extensions: []graphql.Extension{registry.Extension{}},
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("building schema: %w", err)
	}
	return schema, nil
}

// fieldNameWithAlias returns the response key of the first field AST,
// preferring its alias.
func fieldNameWithAlias(fields []*ast.Field) string {
	if len(fields) == 0 || fields[0] == nil {
		return ""
	}
	if fields[0].Alias != nil {
		return fields[0].Alias.Value
	}
	return fields[0].Name.Value
}

// responseKey returns the key this field's result occupies in the
// response. For root mutation fields it doubles as the registry alias.
func responseKey(info graphql.ResolveInfo) string {
	if info.Path != nil {
		if key, ok := info.Path.Key.(string); ok && key != "" {
			return key
		}
	}
	if key := fieldNameWithAlias(info.FieldASTs); key != "" {
		return key
	}
	return info.FieldName
}

func responsePathString(path *graphql.ResponsePath) string {
	if path == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for current := path; current != nil; current = current.Prev {
		parts = append(parts, fmt.Sprint(current.Key))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// isRootMutationField reports whether the field being resolved is a
// direct child of the mutation root.
func isRootMutationField(info graphql.ResolveInfo) bool {
	if info.Operation == nil || info.Operation.GetOperation() != ast.OperationTypeMutation {
		return false
	}
	return info.Path != nil && info.Path.Prev == nil
}

// recordRootMutationResult registers a stored record under the field's
// response key. The store write has already happened by the time this
// runs; a failure here fails only the field and leaves the store write
// in place.
func recordRootMutationResult(p graphql.ResolveParams, rec model.Record) error {
	if !isRootMutationField(p.Info) {
		return &registry.NotRootMutationError{Path: responsePathString(p.Info.Path)}
	}
	reg := registry.FromContext(p.Context)
	if reg == nil {
		return nil
	}
	if err := reg.Record(responseKey(p.Info), rec); err != nil {
		return err
	}
	if m := observability.GraphQLMetricsFromContext(p.Context); m != nil {
		m.RecordAliasRecorded(p.Context, string(rec.Kind()))
	}
	return nil
}

func childFromSource(source interface{}) (model.Child, bool) {
	switch src := source.(type) {
	case model.Child:
		return src, true
	case *model.Child:
		if src != nil {
			return *src, true
		}
	}
	return model.Child{}, false
}

// intArg unwraps an Int argument. The executor coerces Int scalars to
// int, but variables that skipped coercion can surface as other numeric
// types.
func intArg(value interface{}) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
