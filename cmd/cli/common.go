package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/loader"
)

// loaderForSingleDoc adapts an already-parsed document into a Loader that
// resolves any key to it, for commands that only ever operate on one
// document loaded directly from a file path.
func loaderForSingleDoc(doc *document.Document) loader.Loader {
	return loader.Func(func(_ context.Context, _ string) (*document.Document, error) {
		return doc, nil
	})
}

// cmdContext returns a context cancelled on SIGINT/SIGTERM, so a long
// evaluation (or the repl's stdin read) can be interrupted cleanly.
func cmdContext() context.Context {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_ = cancel // cancellation is driven by the signal itself; nothing else needs to cancel early
	return ctx
}
