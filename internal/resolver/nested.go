package resolver

import (
	"errors"
	"log/slog"

	"github.com/graphql-go/graphql"

	"graphlink/internal/logging"
)

// makeNestedCreateParentResolver creates a parent under a child
// selection and immediately links that child to it. The new parent is
// returned as the field value but never registered under an alias.
func (r *Resolver) makeNestedCreateParentResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (result interface{}, err error) {
		ctx, span := startResolverSpan(p.Context, "graphql.mutation.createParent")
		p.Context = ctx
		defer func() {
			finishResolverSpan(span, err, "")
			span.End()
		}()

		child, ok := childFromSource(p.Source)
		if !ok {
			return nil, errors.New("createParent requires a child source")
		}
		data, ok := p.Args["data"].(map[string]interface{})
		if !ok {
			return nil, errors.New("data is required")
		}
		parent, err := parentFromInput(data)
		if err != nil {
			return nil, err
		}

		stored := r.store.UpsertParent(parent)
		if err := r.store.AssignParent(stored.PK, child.PK); err != nil {
			return nil, err
		}

		logging.FromContext(ctx).Debug("nested parent created",
			slog.Int("parent_pk", stored.PK),
			slog.Int("child_pk", child.PK))
		return stored, nil
	}
}

// makeNestedCreateSiblingResolver creates a child under a child
// selection and links the two as siblings. Like createParent, the
// result is not alias-addressable.
func (r *Resolver) makeNestedCreateSiblingResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (result interface{}, err error) {
		ctx, span := startResolverSpan(p.Context, "graphql.mutation.createSibling")
		p.Context = ctx
		defer func() {
			finishResolverSpan(span, err, "")
			span.End()
		}()

		child, ok := childFromSource(p.Source)
		if !ok {
			return nil, errors.New("createSibling requires a child source")
		}
		data, ok := p.Args["data"].(map[string]interface{})
		if !ok {
			return nil, errors.New("data is required")
		}
		sibling, err := childFromInput(data)
		if err != nil {
			return nil, err
		}

		stored := r.store.UpsertChild(sibling)
		if err := r.store.LinkSiblings(child.PK, stored.PK); err != nil {
			return nil, err
		}

		logging.FromContext(ctx).Debug("nested sibling created",
			slog.Int("child_pk", child.PK),
			slog.Int("sibling_pk", stored.PK))
		return stored, nil
	}
}
