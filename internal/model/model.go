// Package model defines the node records exposed through the GraphQL schema.
package model

// Kind identifies which node collection a record belongs to. Kind values
// match the GraphQL type names so they can be reported verbatim in errors.
type Kind string

const (
	KindParent Kind = "Parent"
	KindChild  Kind = "Child"
)

// Record is a stored node that can be registered under a mutation alias
// and later resolved by edge mutations.
type Record interface {
	Kind() Kind
	PrimaryKey() int
}

// Parent is a parent node.
type Parent struct {
	PK   int    `json:"pk"`
	Name string `json:"name"`
}

func (p Parent) Kind() Kind      { return KindParent }
func (p Parent) PrimaryKey() int { return p.PK }

// Child is a child node, optionally linked to one parent and to any number
// of siblings. Parent is nil until a parent edge has been established.
type Child struct {
	PK       int    `json:"pk"`
	Name     string `json:"name"`
	Parent   *int   `json:"parent,omitempty"`
	Siblings []int  `json:"siblings,omitempty"`
}

func (c Child) Kind() Kind      { return KindChild }
func (c Child) PrimaryKey() int { return c.PK }

// Clone returns a copy with its own Parent pointer and Siblings slice.
func (c Child) Clone() Child {
	out := c
	if c.Parent != nil {
		parent := *c.Parent
		out.Parent = &parent
	}
	if len(c.Siblings) > 0 {
		out.Siblings = append([]int(nil), c.Siblings...)
	}
	return out
}
