package loader

import (
	"context"
	"time"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/sethvargo/go-retry"
)

// WithRetry wraps inner with exponential backoff for transient failures
// (a remote loader's network hiccup), per the spec §1 framing of the loader
// as an external collaborator the engine must tolerate failures from.
// NotFound is never retried — it is the loader telling us definitively that
// the key does not resolve, not a transient failure.
func WithRetry(inner Loader, maxRetries uint64, base time.Duration) Loader {
	return Func(func(ctx context.Context, key string) (*document.Document, error) {
		backoff := retry.NewExponential(base)
		backoff = retry.WithMaxRetries(maxRetries, backoff)

		var doc *document.Document
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			d, err := inner.Load(ctx, key)
			if err != nil {
				if jdmerr.Is(err, jdmerr.NotFoundKind) {
					return err // non-retryable: the key genuinely does not exist
				}
				return retry.RetryableError(err)
			}
			doc = d
			return nil
		})
		if err != nil {
			return nil, err
		}
		return doc, nil
	})
}
