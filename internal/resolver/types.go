package resolver

import (
	"github.com/graphql-go/graphql"

	"graphlink/internal/model"
)

func buildParentInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ParentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"pk": &graphql.InputObjectFieldConfig{
				Type:        graphql.Int,
				Description: "Primary key of the node to replace. Omitted or unknown keys allocate a new one.",
			},
			"name": &graphql.InputObjectFieldConfig{
				Type: graphql.NewNonNull(graphql.String),
			},
		},
	})
}

func buildChildInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChildInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"pk": &graphql.InputObjectFieldConfig{
				Type:        graphql.Int,
				Description: "Primary key of the node to replace. Omitted or unknown keys allocate a new one.",
			},
			"name": &graphql.InputObjectFieldConfig{
				Type: graphql.NewNonNull(graphql.String),
			},
			"parent": &graphql.InputObjectFieldConfig{
				Type:        graphql.Int,
				Description: "Primary key of the parent to link. Stored as given, without validation.",
			},
			"siblings": &graphql.InputObjectFieldConfig{
				Type:        graphql.NewList(graphql.NewNonNull(graphql.Int)),
				Description: "Primary keys of sibling children. Stored as given, without back-links.",
			},
		},
	})
}

func buildEdgeResultType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "EdgeResult",
		Description: "Acknowledgement returned by edge mutations.",
		Fields: graphql.Fields{
			"ok": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
			},
		},
	})
}

func buildParentType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: string(model.KindParent),
		Fields: graphql.Fields{
			"pk": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
		},
	})
}

// buildChildType uses a fields thunk because the siblings and
// createSibling fields refer back to the Child type itself.
func (r *Resolver) buildChildType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: string(model.KindChild),
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"pk": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
				},
				"parent": &graphql.Field{
					Type:        r.parentType,
					Description: "The linked parent, or null when the link is unset or dangling.",
					Resolve:     r.makeChildParentResolver(),
				},
				"siblings": &graphql.Field{
					Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(r.childType))),
					Description: "Linked siblings that still exist in the store.",
					Resolve:     r.makeChildSiblingsResolver(),
				},
				"createParent": &graphql.Field{
					Type: r.parentType,
					Args: graphql.FieldConfigArgument{
						"data": &graphql.ArgumentConfig{
							Type: r.parentInput,
						},
					},
					Description: "Creates a parent and links this child to it. The result is not registered under an alias, so edge mutations cannot reference it.",
					Resolve:     r.makeNestedCreateParentResolver(),
				},
				"createSibling": &graphql.Field{
					Type: r.childType,
					Args: graphql.FieldConfigArgument{
						"data": &graphql.ArgumentConfig{
							Type: r.childInput,
						},
					},
					Description: "Creates a child and links it as a sibling of this one. The result is not registered under an alias, so edge mutations cannot reference it.",
					Resolve:     r.makeNestedCreateSiblingResolver(),
				},
			}
		}),
	})
}
