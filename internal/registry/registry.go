// Package registry tracks the records produced by root mutation fields
// during a single GraphQL execution. Edge mutations appearing later in the
// same operation resolve their endpoints through the registry by alias.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"graphlink/internal/model"
)

// DuplicateAliasError reports a second record for an alias that already
// holds one.
type DuplicateAliasError struct {
	Alias string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("result already registered under alias %q", e.Alias)
}

// UnknownAliasError reports a lookup for an alias no mutation has recorded.
type UnknownAliasError struct {
	Alias string
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("no result registered under alias %q", e.Alias)
}

// NotRootMutationError reports an attempt to register a result from a field
// that is not a root field of a mutation operation.
type NotRootMutationError struct {
	Path string
}

func (e *NotRootMutationError) Error() string {
	return fmt.Sprintf("only root mutation fields may register results, got %q", e.Path)
}

// Registry maps mutation aliases to the records those mutations produced.
// One Registry serves exactly one GraphQL execution and starts empty.
type Registry struct {
	mu      sync.RWMutex
	records map[string]model.Record
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]model.Record)}
}

// Record stores rec under alias. Each alias may be written at most once per
// execution.
func (r *Registry) Record(alias string, rec model.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[alias]; ok {
		return &DuplicateAliasError{Alias: alias}
	}
	r.records[alias] = rec
	return nil
}

// Lookup returns the record stored under alias.
func (r *Registry) Lookup(alias string) (model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[alias]
	if !ok {
		return nil, &UnknownAliasError{Alias: alias}
	}
	return rec, nil
}

// Aliases returns every recorded alias in sorted order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.records))
	for alias := range r.records {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Len reports how many aliases have been recorded.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}
