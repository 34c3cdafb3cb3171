// Command demo runs the linked-mutation scenario in process: one
// mutation document that creates a parent and two children and wires
// them together by alias, followed by a listing query showing the
// resulting graph.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/graphql-go/graphql"

	"graphlink/internal/resolver"
	"graphlink/internal/store"
)

const mutationDocument = `
mutation ($parent: ParentInput, $child1: ChildInput, $child2: ChildInput) {
  n1: upsertParent(data: $parent) { pk name }
  n2: upsertChild(data: $child1) { pk name }
  n3: upsertChild(data: $child2) { pk name }
  e1: setParent(parent: "n1", child: "n2") { ok }
  e2: setParent(parent: "n1", child: "n3") { ok }
  e3: addSibling(node1: "n2", node2: "n3") { ok }
}`

const listingQuery = `
query {
  parents { pk name }
  children {
    pk
    name
    parent { pk name }
    siblings { pk name }
  }
}`

func main() {
	if err := run(os.Stdout); err != nil {
		slog.Error("demo error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	st := store.New()
	schema, err := resolver.New(st).BuildSchema()
	if err != nil {
		return err
	}

	mutation := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: mutationDocument,
		VariableValues: map[string]interface{}{
			"parent": map[string]interface{}{"name": "Emilie"},
			"child1": map[string]interface{}{"name": "John"},
			"child2": map[string]interface{}{"name": "Julie"},
		},
		Context: context.Background(),
	})
	if err := printResult(out, "Mutations", mutation); err != nil {
		return err
	}

	query := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: listingQuery,
		Context:       context.Background(),
	})
	return printResult(out, "Query", query)
}

func printResult(out io.Writer, label string, result *graphql.Result) error {
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, label)

	encoded, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s result: %w", label, err)
	}
	fmt.Fprintln(out, string(encoded))

	if len(result.Errors) > 0 {
		for _, gqlErr := range result.Errors {
			fmt.Fprintf(out, "error: %s\n", gqlErr.Message)
		}
		return fmt.Errorf("%s execution reported %d errors", label, len(result.Errors))
	}
	return nil
}
