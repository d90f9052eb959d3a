package jdm

import (
	"time"

	"github.com/bizrules/jdm/internal/loader"
	"github.com/bizrules/jdm/internal/telemetry/metrics"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"
)

// EngineConfig holds an Engine's dependencies and defaults, built via
// functional options and validated before use.
type EngineConfig struct {
	loader           loader.Loader
	cacheDocuments   bool
	retryAttempts    uint64
	retryBaseDelay   time.Duration
	defaultTimeoutMS int64
	metrics          *metrics.Metrics
	tracer           trace.Tracer
}

// Option configures an Engine at construction time.
type Option func(*EngineConfig)

// WithLoader sets the Loader the engine resolves decision keys through.
// Required: New returns an error if no loader is configured.
func WithLoader(l loader.Loader) Option {
	return func(c *EngineConfig) { c.loader = l }
}

// WithDocumentCache enables (the default) or disables the in-process
// parsed-document cache in front of the configured loader, per the
// loader-seam caching contract in spec §4.G.
func WithDocumentCache(enabled bool) Option {
	return func(c *EngineConfig) { c.cacheDocuments = enabled }
}

// WithLoaderRetry wraps the loader with exponential-backoff retry,
// attempts capped at maxRetries beyond the initial try.
func WithLoaderRetry(maxRetries uint64, baseDelay time.Duration) Option {
	return func(c *EngineConfig) {
		c.retryAttempts = maxRetries
		c.retryBaseDelay = baseDelay
	}
}

// WithDefaultTimeout sets the evaluation wall-clock limit used when a call
// to Evaluate/EvaluateDoc passes EvalOptions.MaxExecutionTimeMS == 0,
// rather than leaving such calls unbounded.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *EngineConfig) { c.defaultTimeoutMS = d.Milliseconds() }
}

// WithMetrics attaches a Prometheus metrics sink the Engine records
// evaluation counts, durations, and executed-node counts into.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *EngineConfig) { c.metrics = m }
}

// WithTracer overrides the package-level no-op tracer with one backed by a
// configured TracerProvider, so a host application can route this engine's
// spans to its own exporter.
func WithTracer(t trace.Tracer) Option {
	return func(c *EngineConfig) { c.tracer = t }
}

func defaultConfig() EngineConfig {
	return EngineConfig{
		cacheDocuments: true,
		retryBaseDelay: 50 * time.Millisecond,
	}
}

// Validate reports a CONFIG_INVALID error for any EngineConfig that cannot
// back a working Engine.
func (c EngineConfig) Validate() error {
	if c.loader == nil {
		return oops.Code("CONFIG_INVALID").Errorf("a loader is required (see WithLoader)")
	}
	return nil
}

// EvalOptions configures one evaluation, the façade's view of spec §6's
// evaluation options.
type EvalOptions struct {
	IncludeTrace       bool
	IncludePerformance bool
	MaxExecutionTimeMS int64
}
