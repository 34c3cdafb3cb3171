package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_PrintsLinkedFamily(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Mutations",
		"Query",
		`"Emilie"`,
		`"John"`,
		`"Julie"`,
		`"ok": true`,
		strings.Repeat("=", 50),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "error:") {
		t.Fatalf("unexpected execution errors:\n%s", got)
	}
}
