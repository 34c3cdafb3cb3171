package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"

	"graphlink/internal/logging"
	"graphlink/internal/model"
)

// mutationFields defines the mutation root. Upsert fields are nullable
// so a failed field nulls out without tearing down the sibling results
// in the same document.
func (r *Resolver) mutationFields() graphql.Fields {
	return graphql.Fields{
		"upsertParent": &graphql.Field{
			Type: r.parentType,
			Args: graphql.FieldConfigArgument{
				"data": &graphql.ArgumentConfig{
					Type: r.parentInput,
				},
			},
			Description: "Creates or replaces a parent node and registers the result under this field's response alias.",
			Resolve:     r.makeUpsertParentResolver(),
		},
		"upsertChild": &graphql.Field{
			Type: r.childType,
			Args: graphql.FieldConfigArgument{
				"data": &graphql.ArgumentConfig{
					Type: r.childInput,
				},
			},
			Description: "Creates or replaces a child node and registers the result under this field's response alias.",
			Resolve:     r.makeUpsertChildResolver(),
		},
		"setParent": &graphql.Field{
			Type: r.edgeResultType,
			Args: graphql.FieldConfigArgument{
				"parent": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
				"child": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
			},
			Description: "Links a child to a parent. Both arguments are aliases of earlier root mutation fields in this document.",
			Resolve: r.makeEdgeResolver("setParent",
				edgeEndpoint{arg: "parent", kind: model.KindParent},
				edgeEndpoint{arg: "child", kind: model.KindChild},
				func(ctx context.Context, parentPK, childPK int) error {
					return r.store.AssignParent(parentPK, childPK)
				}),
		},
		"addSibling": &graphql.Field{
			Type: r.edgeResultType,
			Args: graphql.FieldConfigArgument{
				"node1": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
				"node2": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
			},
			Description: "Links two children as siblings in both directions. Both arguments are aliases of earlier root mutation fields in this document.",
			Resolve: r.makeEdgeResolver("addSibling",
				edgeEndpoint{arg: "node1", kind: model.KindChild},
				edgeEndpoint{arg: "node2", kind: model.KindChild},
				func(ctx context.Context, firstPK, secondPK int) error {
					return r.store.LinkSiblings(firstPK, secondPK)
				}),
		},
	}
}

func (r *Resolver) makeUpsertParentResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (result interface{}, err error) {
		ctx, span := startResolverSpan(p.Context, "graphql.mutation.upsertParent",
			attribute.String("graphql.field.alias", responseKey(p.Info)))
		p.Context = ctx
		defer func() {
			finishResolverSpan(span, err, "")
			span.End()
		}()

		data, ok := p.Args["data"].(map[string]interface{})
		if !ok {
			return nil, errors.New("data is required")
		}
		parent, err := parentFromInput(data)
		if err != nil {
			return nil, err
		}

		stored := r.store.UpsertParent(parent)
		if err := recordRootMutationResult(p, stored); err != nil {
			return nil, err
		}

		logging.FromContext(ctx).Debug("parent upserted",
			slog.Int("pk", stored.PK),
			slog.String("alias", responseKey(p.Info)))
		return stored, nil
	}
}

func (r *Resolver) makeUpsertChildResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (result interface{}, err error) {
		ctx, span := startResolverSpan(p.Context, "graphql.mutation.upsertChild",
			attribute.String("graphql.field.alias", responseKey(p.Info)))
		p.Context = ctx
		defer func() {
			finishResolverSpan(span, err, "")
			span.End()
		}()

		data, ok := p.Args["data"].(map[string]interface{})
		if !ok {
			return nil, errors.New("data is required")
		}
		child, err := childFromInput(data)
		if err != nil {
			return nil, err
		}

		stored := r.store.UpsertChild(child)
		if err := recordRootMutationResult(p, stored); err != nil {
			return nil, err
		}

		logging.FromContext(ctx).Debug("child upserted",
			slog.Int("pk", stored.PK),
			slog.String("alias", responseKey(p.Info)))
		return stored, nil
	}
}

func parentFromInput(input map[string]interface{}) (model.Parent, error) {
	name, ok := input["name"].(string)
	if !ok || name == "" {
		return model.Parent{}, errors.New("name is required")
	}
	parent := model.Parent{Name: name}
	if pk, ok := intArg(input["pk"]); ok {
		parent.PK = pk
	}
	return parent, nil
}

func childFromInput(input map[string]interface{}) (model.Child, error) {
	name, ok := input["name"].(string)
	if !ok || name == "" {
		return model.Child{}, errors.New("name is required")
	}
	child := model.Child{Name: name}
	if pk, ok := intArg(input["pk"]); ok {
		child.PK = pk
	}
	if v, ok := intArg(input["parent"]); ok {
		child.Parent = &v
	}
	if raw, ok := input["siblings"].([]interface{}); ok {
		for _, item := range raw {
			if pk, ok := intArg(item); ok {
				child.Siblings = append(child.Siblings, pk)
			}
		}
	}
	return child, nil
}
