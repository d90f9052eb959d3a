package jdm

import (
	"github.com/bizrules/jdm/internal/executor"
	"github.com/bizrules/jdm/internal/value"
)

// TraceEntry is one node's recorded execution, re-exported from the
// executor package so callers never import internal/executor directly.
type TraceEntry = executor.TraceEntry

// EvaluationResult is the façade's return value (spec §4.H): the produced
// context, plus an optional trace and performance metrics.
type EvaluationResult struct {
	Result      value.Value
	Trace       []TraceEntry
	Performance map[string]float64
}

func fromExecutorResult(r executor.Result) EvaluationResult {
	return EvaluationResult{
		Result:      r.Output,
		Trace:       r.Trace,
		Performance: r.Performance,
	}
}
