package resolver

import (
	"errors"

	"github.com/graphql-go/graphql"

	"graphlink/internal/model"
	"graphlink/internal/observability"
)

func (r *Resolver) queryFields() graphql.Fields {
	return graphql.Fields{
		"parent": &graphql.Field{
			Type: r.parentType,
			Args: graphql.FieldConfigArgument{
				"pk": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.Int),
				},
			},
			Description: "Looks up a parent by primary key. Misses return null, not an error.",
			Resolve:     r.makeParentQueryResolver(),
		},
		"parents": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(r.parentType))),
			Description: "All parents in ascending primary key order.",
			Resolve:     r.makeParentsQueryResolver(),
		},
		"child": &graphql.Field{
			Type: r.childType,
			Args: graphql.FieldConfigArgument{
				"pk": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.Int),
				},
			},
			Description: "Looks up a child by primary key. Misses return null, not an error.",
			Resolve:     r.makeChildQueryResolver(),
		},
		"children": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(r.childType))),
			Description: "All children in ascending primary key order.",
			Resolve:     r.makeChildrenQueryResolver(),
		},
	}
}

func (r *Resolver) makeParentQueryResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		pk, ok := intArg(p.Args["pk"])
		if !ok {
			return nil, errors.New("pk is required")
		}
		parent, ok := r.store.Parent(pk)
		if !ok {
			return nil, nil
		}
		return parent, nil
	}
}

func (r *Resolver) makeParentsQueryResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		parents := r.store.Parents()
		if m := observability.GraphQLMetricsFromContext(p.Context); m != nil {
			m.RecordResultsCount(p.Context, int64(len(parents)), "parents")
		}
		return parents, nil
	}
}

func (r *Resolver) makeChildQueryResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		pk, ok := intArg(p.Args["pk"])
		if !ok {
			return nil, errors.New("pk is required")
		}
		child, ok := r.store.Child(pk)
		if !ok {
			return nil, nil
		}
		return child, nil
	}
}

func (r *Resolver) makeChildrenQueryResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		children := r.store.Children()
		if m := observability.GraphQLMetricsFromContext(p.Context); m != nil {
			m.RecordResultsCount(p.Context, int64(len(children)), "children")
		}
		return children, nil
	}
}

// makeChildParentResolver follows the child's parent link. An unset or
// dangling link resolves to null.
func (r *Resolver) makeChildParentResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		child, ok := childFromSource(p.Source)
		if !ok || child.Parent == nil {
			return nil, nil
		}
		parent, ok := r.store.Parent(*child.Parent)
		if !ok {
			return nil, nil
		}
		return parent, nil
	}
}

// makeChildSiblingsResolver resolves the child's sibling links,
// skipping primary keys that no longer exist.
func (r *Resolver) makeChildSiblingsResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		child, ok := childFromSource(p.Source)
		if !ok {
			return []model.Child{}, nil
		}
		siblings := make([]model.Child, 0, len(child.Siblings))
		for _, pk := range child.Siblings {
			if sibling, ok := r.store.Child(pk); ok {
				siblings = append(siblings, sibling)
			}
		}
		return siblings, nil
	}
}
