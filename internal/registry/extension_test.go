package registry

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"

	"graphlink/internal/model"
)

func TestExtensionInit_AttachesFreshRegistry(t *testing.T) {
	ext := Extension{}

	ctx := ext.Init(context.Background(), &graphql.Params{})
	reg := FromContext(ctx)
	if reg == nil {
		t.Fatal("expected registry in context after Init")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", reg.Len())
	}
}

func TestExtensionInit_IsolatesExecutions(t *testing.T) {
	ext := Extension{}

	first := FromContext(ext.Init(context.Background(), &graphql.Params{}))
	if err := first.Record("n1", model.Parent{PK: 1, Name: "Emilie"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	second := FromContext(ext.Init(context.Background(), &graphql.Params{}))
	if first == second {
		t.Fatal("expected a distinct registry per execution")
	}
	if _, err := second.Lookup("n1"); err == nil {
		t.Fatal("expected alias from first execution to be invisible in second")
	}
}

func TestExtensionInit_NilContext(t *testing.T) {
	ctx := Extension{}.Init(nil, &graphql.Params{})
	if FromContext(ctx) == nil {
		t.Fatal("expected registry even when Init receives a nil context")
	}
}

func TestFromContext_Missing(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatal("expected nil registry for plain context")
	}
	if FromContext(nil) != nil {
		t.Fatal("expected nil registry for nil context")
	}
}
