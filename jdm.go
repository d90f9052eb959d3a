// Package jdm is the public façade of a business rules engine that
// executes JSON Decision Models (JDM): a DAG of typed nodes evaluated
// against an input context to produce an output context, optionally
// accompanied by a per-node execution trace and performance metrics.
package jdm

import (
	"context"
	"sync"
	"time"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/executor"
	"github.com/bizrules/jdm/internal/loader"
	"github.com/bizrules/jdm/internal/telemetry/log"
	"github.com/bizrules/jdm/internal/telemetry/metrics"
	"github.com/bizrules/jdm/internal/telemetry/tracing"
	"github.com/bizrules/jdm/internal/value"
	"go.opentelemetry.io/otel/trace"
)

// Engine resolves JDM documents through a Loader and evaluates them. One
// Engine is safe for concurrent use by multiple goroutines: parsed
// documents are immutable and shared, while each evaluation owns its own
// context and trace buffer (spec §5).
type Engine struct {
	loader           loader.Loader
	defaultTimeoutMS int64
	metrics          *metrics.Metrics
	tracer           trace.Tracer
}

// New builds an Engine from the given options. WithLoader is required.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := cfg.loader
	if cfg.retryAttempts > 0 {
		l = loader.WithRetry(l, cfg.retryAttempts, cfg.retryBaseDelay)
	}
	if cfg.cacheDocuments {
		l = loader.NewCaching(l)
	}

	tracer := cfg.tracer
	if tracer == nil {
		tracer = tracing.Tracer
	}

	return &Engine{
		loader:           l,
		defaultTimeoutMS: cfg.defaultTimeoutMS,
		metrics:          cfg.metrics,
		tracer:           tracer,
	}, nil
}

// Evaluate resolves key through the configured loader and evaluates it
// against ctxValue (spec §4.H `evaluate`).
func (e *Engine) Evaluate(ctx context.Context, key string, ctxValue value.Value, opts EvalOptions) (EvaluationResult, error) {
	spanCtx, span := e.tracer.Start(ctx, "jdm.Evaluate")
	defer span.End()

	doc, err := e.loader.Load(spanCtx, key)
	if err != nil {
		log.Warnf("jdm: failed to load document %q: %v", key, err)
		return EvaluationResult{}, err
	}
	return e.EvaluateDoc(spanCtx, doc, ctxValue, opts)
}

// EvaluateDoc evaluates a pre-loaded document (spec §4.H `evaluate_doc`),
// skipping the loader entirely.
func (e *Engine) EvaluateDoc(ctx context.Context, doc *document.Document, ctxValue value.Value, opts EvalOptions) (EvaluationResult, error) {
	spanCtx, span := e.tracer.Start(ctx, "jdm.EvaluateDoc")
	defer span.End()

	timeoutMS := opts.MaxExecutionTimeMS
	if timeoutMS == 0 {
		timeoutMS = e.defaultTimeoutMS
	}

	start := time.Now()
	res, err := executor.Execute(spanCtx, doc, value.DeepClone(ctxValue), executor.Options{
		IncludeTrace:       opts.IncludeTrace,
		IncludePerformance: opts.IncludePerformance,
		MaxExecutionTimeMS: timeoutMS,
	})
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if e.metrics != nil {
		e.metrics.EvaluationsTotal.WithLabelValues(status).Inc()
		e.metrics.EvaluationDuration.WithLabelValues(status).Observe(elapsed.Seconds())
		if err == nil {
			e.metrics.NodesExecutedTotal.Add(float64(res.NodeCount))
		}
	}

	if err != nil {
		log.Warnf("jdm: evaluation of document %q failed after %s: %v", doc.ID, elapsed, err)
		return EvaluationResult{}, err
	}
	return fromExecutorResult(res), nil
}

// MultiEvalRequest is one unit of work for MultiEvaluate.
type MultiEvalRequest struct {
	Key     string
	Context value.Value
	Options EvalOptions
}

// MultiEvaluate runs several independent evaluations concurrently and
// returns their results in request order, short-circuiting on the first
// error (spec §5: a single engine instance is safe for concurrent
// evaluations from multiple threads). This is a convenience the core spec
// does not mandate but the concurrency model explicitly allows.
func (e *Engine) MultiEvaluate(ctx context.Context, requests []MultiEvalRequest) ([]EvaluationResult, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		index int
		res   EvaluationResult
		err   error
	}

	results := make([]EvaluationResult, len(requests))
	outCh := make(chan outcome, len(requests))

	var wg sync.WaitGroup
	wg.Add(len(requests))
	for i, req := range requests {
		go func(i int, req MultiEvalRequest) {
			defer wg.Done()
			res, err := e.Evaluate(ctx, req.Key, req.Context, req.Options)
			outCh <- outcome{index: i, res: res, err: err}
		}(i, req)
	}

	go func() {
		wg.Wait()
		close(outCh)
	}()

	for o := range outCh {
		if o.err != nil {
			cancel()
			return nil, o.err
		}
		results[o.index] = o.res
	}
	return results, nil
}
