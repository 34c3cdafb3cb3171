package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mitchellh/mapstructure"
)

func TestReadSecretFile_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  super-secret\n"), 0o600); err != nil {
		t.Fatalf("write token file: %v", err)
	}

	got, err := readSecretFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "super-secret" {
		t.Fatalf("expected trimmed token, got %q", got)
	}
}

func TestReadSecretFile_MissingFile(t *testing.T) {
	if _, err := readSecretFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStringToStringSliceHookFunc(t *testing.T) {
	hook := stringToStringSliceHookFunc(",")

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"splits and trims", "a, b ,c", []string{"a", "b", "c"}},
		{"drops empty segments", "a,,b,", []string{"a", "b"}},
		{"empty input", "", []string{}},
	}

	stringType := reflect.TypeOf("")
	sliceType := reflect.TypeOf([]string{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapstructure.DecodeHookExec(hook, reflect.ValueOf(tt.input), reflect.New(sliceType).Elem())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("non-slice target passes through", func(t *testing.T) {
		got, err := mapstructure.DecodeHookExec(hook, reflect.ValueOf("plain"), reflect.New(stringType).Elem())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "plain" {
			t.Fatalf("expected passthrough, got %v", got)
		}
	})
}
