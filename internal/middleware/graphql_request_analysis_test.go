package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"graphlink/internal/gqlrequest"
)

func TestGraphQLRequestAnalysisMiddleware_PopulatesContext(t *testing.T) {
	var (
		analysis *gqlrequest.Analysis
		meta     gqlrequest.ExecMeta
		metaOK   bool
		replayed string
	)
	handler := GraphQLRequestAnalysisMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		analysis = gqlrequest.AnalysisFromContext(r.Context())
		meta, metaOK = gqlrequest.ExecMetaFromContext(r.Context())
		body, _ := io.ReadAll(r.Body)
		replayed = string(body)
	}))

	body := `{"query":"mutation Link { e1: setParent(parent: \"n1\", child: \"n2\") { ok } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if analysis == nil {
		t.Fatal("analysis missing from request context")
	}
	if err := analysis.FirstError(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if analysis.OperationType != "mutation" || analysis.OperationName != "Link" {
		t.Errorf("analyzed %s %q, want mutation Link", analysis.OperationType, analysis.OperationName)
	}
	if !metaOK || meta.OperationName != "Link" {
		t.Errorf("ExecMeta = %+v, %t; want the Link metadata", meta, metaOK)
	}
	if replayed != body {
		t.Errorf("downstream handler read %q, want the original body", replayed)
	}
}

func TestGraphQLRequestAnalysisMiddleware_ToleratesBadRequests(t *testing.T) {
	var handlerRan bool
	handler := GraphQLRequestAnalysisMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		a := gqlrequest.AnalysisFromContext(r.Context())
		if a == nil || a.FirstError() == nil {
			t.Error("expected an analysis carrying the decode failure")
		}
	}))

	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{"query": `))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !handlerRan {
		t.Fatal("malformed requests must still reach the GraphQL handler")
	}
}
