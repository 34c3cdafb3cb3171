package gqlrequest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/printer"
	"github.com/graphql-go/graphql/language/source"
)

// anonymousOperationName stands in for operations without a name so logs
// and metrics always carry a non-empty operation label.
const anonymousOperationName = "<anonymous>"

// Analysis is everything the middleware stack wants to know about a
// request: the decoded envelope, the parsed document, the selected
// operation, and shape statistics. Each stage that can fail records its
// error instead of aborting, so a malformed request still yields a
// partially populated Analysis for logging.
type Analysis struct {
	Envelope               Envelope
	RequestedOperationName string

	Document  *ast.Document
	Fragments map[string]*ast.FragmentDefinition

	Operation     *ast.OperationDefinition
	OperationName string
	OperationType string

	FieldCount     int
	SelectionDepth int
	VariableCount  int

	CanonicalOperation string
	OperationHash      string

	DecodeError     error
	ParseError      error
	SelectionError  error
	CanonicalizeErr error
}

// FirstError reports the earliest failure hit while analyzing, or nil
// when every stage succeeded.
func (a *Analysis) FirstError() error {
	if a == nil {
		return nil
	}
	for _, err := range []error{a.DecodeError, a.ParseError, a.SelectionError, a.CanonicalizeErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// AnalyzeRequest decodes and analyzes an HTTP GraphQL request. The
// request body is rewound, so the downstream handler sees it untouched.
func AnalyzeRequest(r *http.Request) *Analysis {
	env, err := DecodeEnvelope(r)
	if err != nil {
		return &Analysis{
			Envelope:               env,
			RequestedOperationName: env.OperationName,
			DecodeError:            err,
		}
	}
	return AnalyzeEnvelope(env)
}

// AnalyzeEnvelope parses the query text and derives operation metadata.
func AnalyzeEnvelope(env Envelope) *Analysis {
	a := &Analysis{
		Envelope:               env,
		RequestedOperationName: env.OperationName,
	}

	if strings.TrimSpace(env.Query) == "" {
		a.ParseError = fmt.Errorf("request does not include a query")
		return a
	}

	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{
			Body: []byte(env.Query),
			Name: "graphql",
		}),
	})
	if err != nil {
		a.ParseError = err
		return a
	}
	a.Document = doc
	a.Fragments = buildFragmentMap(doc)

	op, err := selectOperation(doc, env.OperationName)
	if err != nil {
		a.SelectionError = err
		return a
	}
	a.Operation = op
	a.OperationType = op.Operation
	a.OperationName = effectiveOperationName(op)

	fields, depth := measureSelections(op.SelectionSet, a.Fragments, 1, map[string]bool{})
	a.FieldCount = fields
	a.SelectionDepth = depth
	a.VariableCount = len(op.VariableDefinitions)

	canonical, hash, err := canonicalOperationAndHash(op, a.Fragments)
	if err != nil {
		a.CanonicalizeErr = err
		return a
	}
	a.CanonicalOperation = canonical
	a.OperationHash = hash
	return a
}

func buildFragmentMap(doc *ast.Document) map[string]*ast.FragmentDefinition {
	fragments := make(map[string]*ast.FragmentDefinition)
	for _, def := range doc.Definitions {
		if frag, ok := def.(*ast.FragmentDefinition); ok && frag.Name != nil {
			fragments[frag.Name.Value] = frag
		}
	}
	return fragments
}

// selectOperation applies the standard GraphQL-over-HTTP selection
// rules: a requested name must match, a lone operation is implicit, and
// multiple operations require an explicit name.
func selectOperation(doc *ast.Document, requested string) (*ast.OperationDefinition, error) {
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			ops = append(ops, op)
		}
	}

	if requested != "" {
		for _, op := range ops {
			if op.Name != nil && op.Name.Value == requested {
				return op, nil
			}
		}
		return nil, fmt.Errorf("unknown operation named %q", requested)
	}

	switch len(ops) {
	case 0:
		return nil, fmt.Errorf("request does not include an operation")
	case 1:
		return ops[0], nil
	default:
		return nil, fmt.Errorf("operationName is required when request has multiple operations")
	}
}

func effectiveOperationName(op *ast.OperationDefinition) string {
	if op.Name != nil && op.Name.Value != "" {
		return op.Name.Value
	}
	return anonymousOperationName
}

// measureSelections walks a selection set counting fields and tracking
// the deepest field nesting. Fragments are transparent: spreading one
// contributes its fields at the spread's depth. The inFlight set guards
// against fragment cycles, which are invalid GraphQL but must not hang
// the analyzer.
func measureSelections(selSet *ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, depth int, inFlight map[string]bool) (fields, maxDepth int) {
	if selSet == nil {
		return 0, depth - 1
	}
	maxDepth = depth - 1
	for _, sel := range selSet.Selections {
		switch node := sel.(type) {
		case *ast.Field:
			fields++
			if depth > maxDepth {
				maxDepth = depth
			}
			f, d := measureSelections(node.SelectionSet, fragments, depth+1, inFlight)
			fields += f
			if d > maxDepth {
				maxDepth = d
			}
		case *ast.InlineFragment:
			f, d := measureSelections(node.SelectionSet, fragments, depth, inFlight)
			fields += f
			if d > maxDepth {
				maxDepth = d
			}
		case *ast.FragmentSpread:
			if node.Name == nil {
				continue
			}
			name := node.Name.Value
			if inFlight[name] {
				continue
			}
			frag, ok := fragments[name]
			if !ok {
				continue
			}
			inFlight[name] = true
			f, d := measureSelections(frag.SelectionSet, fragments, depth, inFlight)
			delete(inFlight, name)
			fields += f
			if d > maxDepth {
				maxDepth = d
			}
		}
	}
	return fields, maxDepth
}

// canonicalOperationAndHash prints the selected operation together with
// the fragments it references, sorted by name, and hashes the result.
// Two requests that differ only in whitespace, fragment order, or
// unused definitions hash identically.
func canonicalOperationAndHash(op *ast.OperationDefinition, fragments map[string]*ast.FragmentDefinition) (canonical, hash string, err error) {
	defs := []ast.Node{op}
	for _, name := range referencedFragmentNames(op.SelectionSet, fragments) {
		if frag, ok := fragments[name]; ok {
			defs = append(defs, frag)
		}
	}

	printed, ok := printer.Print(ast.NewDocument(&ast.Document{Definitions: defs})).(string)
	if !ok {
		return "", "", fmt.Errorf("printing canonical operation")
	}
	canonical = strings.TrimSpace(printed)
	hash = framedSHA256(op.Operation, effectiveOperationName(op), canonical)
	return canonical, hash, nil
}

// referencedFragmentNames collects the fragments reachable from a
// selection set, following spreads transitively, sorted by name.
func referencedFragmentNames(selSet *ast.SelectionSet, fragments map[string]*ast.FragmentDefinition) []string {
	seen := map[string]bool{}
	var walk func(ss *ast.SelectionSet)
	walk = func(ss *ast.SelectionSet) {
		if ss == nil {
			return
		}
		for _, sel := range ss.Selections {
			switch node := sel.(type) {
			case *ast.Field:
				walk(node.SelectionSet)
			case *ast.InlineFragment:
				walk(node.SelectionSet)
			case *ast.FragmentSpread:
				if node.Name == nil {
					continue
				}
				name := node.Name.Value
				if seen[name] {
					continue
				}
				seen[name] = true
				if frag, ok := fragments[name]; ok {
					walk(frag.SelectionSet)
				}
			}
		}
	}
	walk(selSet)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// framedSHA256 hashes each part with an explicit length frame so that
// concatenation ambiguity cannot produce collisions across parts.
func framedSHA256(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%d:%s|", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
