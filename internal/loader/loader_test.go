package loader

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const minimalDoc = `{
  "id":"d","name":"d",
  "nodes": {
    "in": {"id":"in","name":"in","type":"inputNode"},
    "out": {"id":"out","name":"out","type":"outputNode"}
  },
  "edges": [{"id":"e1","sourceId":"in","targetId":"out"}]
}`

func TestInMemoryLoaderNotFound(t *testing.T) {
	l := NewInMemory(nil)
	_, err := l.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.NotFoundKind))
}

func TestCachingLoaderOnlyCallsInnerOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, err := document.Parse([]byte(minimalDoc))
	require.NoError(t, err)

	var calls int32
	inner := Func(func(_ context.Context, _ string) (*document.Document, error) {
		atomic.AddInt32(&calls, 1)
		return doc, nil
	})

	cached := NewCaching(inner)
	for i := 0; i < 5; i++ {
		got, err := cached.Load(context.Background(), "k")
		require.NoError(t, err)
		assert.Same(t, doc, got)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCachingLoaderInvalidate(t *testing.T) {
	doc, err := document.Parse([]byte(minimalDoc))
	require.NoError(t, err)

	var calls int32
	inner := Func(func(_ context.Context, _ string) (*document.Document, error) {
		atomic.AddInt32(&calls, 1)
		return doc, nil
	})

	cached := NewCaching(inner)
	_, err = cached.Load(context.Background(), "k")
	require.NoError(t, err)
	cached.Invalidate("k")
	_, err = cached.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestWithRetryDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	inner := Func(func(_ context.Context, key string) (*document.Document, error) {
		atomic.AddInt32(&calls, 1)
		return nil, jdmerr.NotFound(key)
	})

	retrying := WithRetry(inner, 3, time.Millisecond)
	_, err := retrying.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.NotFoundKind))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestWithRetryRetriesTransientFailure(t *testing.T) {
	doc, err := document.Parse([]byte(minimalDoc))
	require.NoError(t, err)

	var calls int32
	inner := Func(func(_ context.Context, _ string) (*document.Document, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return nil, assertError{}
		}
		return doc, nil
	})

	retrying := WithRetry(inner, 5, time.Millisecond)
	got, err := retrying.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Same(t, doc, got)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

type assertError struct{}

func (assertError) Error() string { return "transient failure" }
