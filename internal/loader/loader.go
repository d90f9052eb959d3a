// Package loader implements the external loader seam from spec §4.G: a
// black-box key -> Document resolver that the executor never assumes
// anything about beyond NotFound on a miss. The package also provides two
// decorators: an in-process cache, which the façade wires by default, and a
// retry wrapper for loaders backed by flaky external storage, which the
// façade wires only when jdm.WithLoaderRetry sets a retry count above zero.
package loader

import (
	"context"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/jdmerr"
)

// Loader resolves a decision key to a parsed JDM document. Implementations
// are free to hit a filesystem, an HTTP endpoint, or an in-memory map; the
// engine only depends on this interface, per the "out of scope" boundary in
// spec §1.
type Loader interface {
	Load(ctx context.Context, key string) (*document.Document, error)
}

// Func adapts a plain function to Loader, mirroring the common
// http.HandlerFunc-style adapter idiom.
type Func func(ctx context.Context, key string) (*document.Document, error)

func (f Func) Load(ctx context.Context, key string) (*document.Document, error) {
	return f(ctx, key)
}

// InMemory is a Loader backed by a fixed map, typically populated once at
// startup from embedded or test-fixture documents.
type InMemory struct {
	docs map[string]*document.Document
}

// NewInMemory builds an InMemory loader from pre-parsed documents.
func NewInMemory(docs map[string]*document.Document) *InMemory {
	clone := make(map[string]*document.Document, len(docs))
	for k, v := range docs {
		clone[k] = v
	}
	return &InMemory{docs: clone}
}

func (l *InMemory) Load(_ context.Context, key string) (*document.Document, error) {
	doc, ok := l.docs[key]
	if !ok {
		return nil, jdmerr.NotFound(key)
	}
	return doc, nil
}
