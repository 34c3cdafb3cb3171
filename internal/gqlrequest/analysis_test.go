package gqlrequest

import (
	"context"
	"strings"
	"testing"
)

func analyze(t *testing.T, query, operationName string) *Analysis {
	t.Helper()
	return AnalyzeEnvelope(Envelope{
		Query:             query,
		OperationName:     operationName,
		DocumentSizeBytes: len(query),
	})
}

func TestAnalyzeEnvelope_CountsFieldsAndDepth(t *testing.T) {
	a := analyze(t, `query Listing {
		parents { pk name }
		children { pk parent { pk } }
	}`, "")

	if err := a.FirstError(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if a.OperationName != "Listing" {
		t.Errorf("OperationName = %q, want %q", a.OperationName, "Listing")
	}
	if a.OperationType != "query" {
		t.Errorf("OperationType = %q, want %q", a.OperationType, "query")
	}
	if a.FieldCount != 7 {
		t.Errorf("FieldCount = %d, want 7", a.FieldCount)
	}
	if a.SelectionDepth != 3 {
		t.Errorf("SelectionDepth = %d, want 3", a.SelectionDepth)
	}
}

func TestAnalyzeEnvelope_FragmentsDoNotAddDepth(t *testing.T) {
	a := analyze(t, `
		query { children { ...nodeFields } }
		fragment nodeFields on Child { pk name }
	`, "")

	if err := a.FirstError(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if a.FieldCount != 3 {
		t.Errorf("FieldCount = %d, want 3", a.FieldCount)
	}
	if a.SelectionDepth != 2 {
		t.Errorf("SelectionDepth = %d, want 2", a.SelectionDepth)
	}
}

func TestAnalyzeEnvelope_FragmentCycleTerminates(t *testing.T) {
	// Cyclic fragments fail GraphQL validation, but they parse, so the
	// analyzer must not loop on them.
	a := analyze(t, `
		query { children { ...a } }
		fragment a on Child { pk ...b }
		fragment b on Child { name ...a }
	`, "")

	if err := a.FirstError(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if a.FieldCount != 3 {
		t.Errorf("FieldCount = %d, want 3", a.FieldCount)
	}
}

func TestAnalyzeEnvelope_SelectsRequestedOperation(t *testing.T) {
	query := `
		query A { parents { pk } }
		mutation B { n1: upsertParent(input: {name: "Emilie"}) { pk } }
	`

	a := analyze(t, query, "B")
	if err := a.FirstError(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if a.OperationName != "B" || a.OperationType != "mutation" {
		t.Errorf("selected %s %q, want mutation B", a.OperationType, a.OperationName)
	}

	a = analyze(t, query, "C")
	if a.SelectionError == nil {
		t.Fatal("expected a selection error for an unknown operation name")
	}
	if !strings.Contains(a.SelectionError.Error(), `"C"`) {
		t.Errorf("SelectionError = %q, want it to name the missing operation", a.SelectionError)
	}
}

func TestAnalyzeEnvelope_MultipleOperationsRequireName(t *testing.T) {
	a := analyze(t, `query { parents { pk } } query { children { pk } }`, "")
	if a.SelectionError == nil {
		t.Fatal("expected a selection error for multiple unnamed operations")
	}
}

func TestAnalyzeEnvelope_EmptyQuery(t *testing.T) {
	a := analyze(t, "   ", "")
	if a.ParseError == nil {
		t.Fatal("expected a parse error for an empty query")
	}
	if a.FirstError() != a.ParseError {
		t.Errorf("FirstError = %v, want the parse error", a.FirstError())
	}
}

func TestAnalyzeEnvelope_AnonymousOperation(t *testing.T) {
	a := analyze(t, `{ parents { pk } }`, "")
	if err := a.FirstError(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if a.OperationName != anonymousOperationName {
		t.Errorf("OperationName = %q, want %q", a.OperationName, anonymousOperationName)
	}
}

func TestOperationHash_IgnoresFormattingAndUnusedDefinitions(t *testing.T) {
	base := analyze(t, `query L { parents { pk name } }`, "")
	reformatted := analyze(t, `
		fragment unused on Child { pk }
		query   L   {
			parents { pk      name }
		}
	`, "L")
	different := analyze(t, `query L { parents { pk } }`, "")

	for _, a := range []*Analysis{base, reformatted, different} {
		if err := a.FirstError(); err != nil {
			t.Fatalf("analysis failed: %v", err)
		}
	}
	if base.OperationHash == "" {
		t.Fatal("OperationHash is empty")
	}
	if base.OperationHash != reformatted.OperationHash {
		t.Errorf("hash changed with formatting: %s vs %s", base.OperationHash, reformatted.OperationHash)
	}
	if base.OperationHash == different.OperationHash {
		t.Error("hash identical for different selections")
	}
}

func TestOperationHash_IncludesReferencedFragments(t *testing.T) {
	a := analyze(t, `
		query { children { ...f } }
		fragment f on Child { pk }
	`, "")
	b := analyze(t, `
		query { children { ...f } }
		fragment f on Child { name }
	`, "")

	if a.OperationHash == b.OperationHash {
		t.Error("hash identical although a referenced fragment changed")
	}
	if !strings.Contains(a.CanonicalOperation, "fragment f on Child") {
		t.Errorf("CanonicalOperation = %q, want the referenced fragment included", a.CanonicalOperation)
	}
}

func TestExecMetaContext_RoundTrip(t *testing.T) {
	meta := ExecMeta{OperationName: "L", OperationType: "query", OperationHash: "abc"}

	ctx := WithExecMeta(context.Background(), meta)
	got, ok := ExecMetaFromContext(ctx)
	if !ok || got != meta {
		t.Errorf("ExecMetaFromContext = %+v, %t; want %+v, true", got, ok, meta)
	}

	if _, ok := ExecMetaFromContext(context.Background()); ok {
		t.Error("ExecMetaFromContext reported metadata on an empty context")
	}
}

func TestAnalysisContext_NilTolerant(t *testing.T) {
	if got := AnalysisFromContext(nil); got != nil {
		t.Errorf("AnalysisFromContext(nil) = %v, want nil", got)
	}

	a := &Analysis{OperationName: "L"}
	ctx := WithAnalysis(nil, a)
	if got := AnalysisFromContext(ctx); got != a {
		t.Errorf("AnalysisFromContext = %v, want the stored analysis", got)
	}
}

func TestMetaFromAnalysis(t *testing.T) {
	if got := MetaFromAnalysis(nil); got != (ExecMeta{}) {
		t.Errorf("MetaFromAnalysis(nil) = %+v, want zero value", got)
	}

	a := analyze(t, `query L { parents { pk } }`, "")
	meta := MetaFromAnalysis(a)
	if meta.OperationName != "L" || meta.OperationType != "query" || meta.OperationHash != a.OperationHash {
		t.Errorf("MetaFromAnalysis = %+v, want fields copied from the analysis", meta)
	}
}
