// Package executor implements the graph executor from spec §4.F: Kahn's
// topological scheduling, fan-in merge of predecessor contexts, switch
// dead-branch pruning, tracing, and wall-clock timeout enforcement.
package executor

import (
	"context"
	"time"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/bizrules/jdm/internal/node"
	"github.com/bizrules/jdm/internal/value"
)

// Options configures one evaluation, per spec §6.
type Options struct {
	IncludeTrace       bool
	IncludePerformance bool
	MaxExecutionTimeMS int64 // 0 means no limit
}

// TraceEntry records one node's execution, per spec §4.F/§6.
type TraceEntry struct {
	ID              string
	Name            string
	Kind            document.NodeKind
	Input           value.Value
	Output          value.Value
	ExecutionTimeMS float64
}

// Result is the graph executor's output, the core of the façade's
// EvaluationResult (spec §4.H).
type Result struct {
	Output      value.Value
	Trace       []TraceEntry
	Performance map[string]float64
	NodeCount   int // nodes actually executed, populated regardless of opts.IncludePerformance
}

// Execute runs doc against input in topological order. Nodes pruned by
// switch dead-branch elimination are skipped entirely — no trace entry, no
// output, no downstream contribution.
func Execute(ctx context.Context, doc *document.Document, input value.Value, opts Options) (Result, error) {
	start := time.Now()

	order, err := topoSort(doc)
	if err != nil {
		return Result{}, err
	}
	orderIndex := make(map[string]int, len(order))
	for i, id := range order {
		orderIndex[id] = i
	}

	outEdges := make(map[string][]document.Edge, len(doc.Nodes))
	for _, e := range doc.Edges {
		outEdges[e.SourceID] = append(outEdges[e.SourceID], e)
	}

	outputs := make(map[string]value.Value, len(order))
	matchedStmts := make(map[string]map[string]bool, len(order))
	active := make(map[string]bool, len(order))

	var trace []TraceEntry
	edgesTraversed := 0

	for _, id := range order {
		n := doc.Nodes[id]

		nodeInput, isActive, traversed := gatherInput(n, doc, outEdges, outputs, matchedStmts, active, orderIndex, input)
		edgesTraversed += traversed
		if !isActive {
			continue
		}

		nodeStart := time.Now()
		res, err := node.Eval(n.Spec, nodeInput)
		if err != nil {
			return Result{}, jdmerr.NodeExecutionFailure(n.ID, string(n.Kind), err)
		}
		elapsed := time.Since(nodeStart)

		active[id] = true
		outputs[id] = res.Context
		if n.Spec.Kind == node.Switch {
			set := make(map[string]bool, len(res.MatchedStmtIDs))
			for _, sid := range res.MatchedStmtIDs {
				set[sid] = true
			}
			matchedStmts[id] = set
		}

		if opts.IncludeTrace {
			trace = append(trace, TraceEntry{
				ID:              n.ID,
				Name:            n.Name,
				Kind:            n.Kind,
				Input:           value.DeepClone(nodeInput),
				Output:          value.DeepClone(res.Context),
				ExecutionTimeMS: float64(elapsed.Nanoseconds()) / 1e6,
			})
		}

		if opts.MaxExecutionTimeMS > 0 {
			elapsedMS := time.Since(start).Milliseconds()
			if elapsedMS > opts.MaxExecutionTimeMS {
				return Result{}, jdmerr.Timeout(elapsedMS, opts.MaxExecutionTimeMS)
			}
		}

		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	finalOutput := findOutput(doc, order, outputs, active)

	result := Result{Output: finalOutput, Trace: trace, NodeCount: len(active)}
	if opts.IncludePerformance {
		result.Performance = map[string]float64{
			"execution_time_ms": float64(time.Since(start).Nanoseconds()) / 1e6,
			"node_count":        float64(len(active)),
			"edges_traversed":   float64(edgesTraversed),
		}
	}
	return result, nil
}

// gatherInput computes a node's effective input context and whether it is
// active this evaluation (spec §4.F fan-in merge + switch dead-branch
// elimination). It returns the count of edges that actually contributed,
// for the edges_traversed performance metric.
func gatherInput(
	n document.Node,
	doc *document.Document,
	outEdges map[string][]document.Edge,
	outputs map[string]value.Value,
	matchedStmts map[string]map[string]bool,
	active map[string]bool,
	orderIndex map[string]int,
	callerInput value.Value,
) (value.Value, bool, int) {
	if n.Spec.Kind == node.Input {
		return callerInput, true, 0
	}

	type contribution struct {
		order int
		value value.Value
	}
	var contributions []contribution
	traversed := 0

	for _, e := range doc.Edges {
		if e.TargetID != n.ID {
			continue
		}
		src, ok := doc.Nodes[e.SourceID]
		if !ok || !active[e.SourceID] {
			continue
		}
		if src.Spec.Kind == node.Switch {
			if !matchedStmts[e.SourceID][e.SourceHandle] {
				continue
			}
		}
		contributions = append(contributions, contribution{order: orderIndex[e.SourceID], value: outputs[e.SourceID]})
		traversed++
	}

	if len(contributions) == 0 {
		return value.Value{}, false, traversed
	}

	// Sort by predecessor topological order for deterministic merge,
	// insertion sort since the contribution count per node is small.
	for i := 1; i < len(contributions); i++ {
		for j := i; j > 0 && contributions[j].order < contributions[j-1].order; j-- {
			contributions[j], contributions[j-1] = contributions[j-1], contributions[j]
		}
	}

	merged := contributions[0].value
	for _, c := range contributions[1:] {
		merged = mergeFanIn(merged, c.value)
	}
	return merged, true, traversed
}

// mergeFanIn shallow-merges b into a: b's keys overwrite a's, except that
// object-valued collisions are merged recursively; arrays and scalars are
// replaced, never concatenated (spec §4.F, flagged as an explicit design
// choice in §9).
func mergeFanIn(a, b value.Value) value.Value {
	if a.Kind() != value.Object || b.Kind() != value.Object {
		return b
	}
	out := a.Obj().Clone()
	for _, k := range b.Obj().Keys() {
		bv, _ := b.Obj().Get(k)
		if av, ok := out.Get(k); ok && av.Kind() == value.Object && bv.Kind() == value.Object {
			out.Set(k, mergeFanIn(av, bv))
			continue
		}
		out.Set(k, bv)
	}
	return value.ObjectValue(out)
}

// findOutput returns the first active output node's context in topological
// order. A well-formed document may have several output nodes (different
// switch branches each terminating separately); the spec models a single
// EvaluationResult, so the first one reached wins.
func findOutput(doc *document.Document, order []string, outputs map[string]value.Value, active map[string]bool) value.Value {
	for _, id := range order {
		n := doc.Nodes[id]
		if n.Spec.Kind == node.Output && active[id] {
			return outputs[id]
		}
	}
	return value.NullValue()
}
