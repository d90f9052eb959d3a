package document

import (
	"sort"

	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/bizrules/jdm/internal/node"
)

// Validate checks the structural invariants from spec §3: edges reference
// existing nodes, at least one input and one output node exist, every
// non-input node is reachable from some input, every non-output node has at
// least one successor, and the graph is acyclic. Run once at Parse time so
// InvalidGraph is reported at load rather than mid-evaluation.
func Validate(doc *Document) error {
	if len(doc.Nodes) == 0 {
		return jdmerr.InvalidGraph("document has no nodes")
	}

	outEdges := make(map[string][]Edge, len(doc.Nodes))
	inDegree := make(map[string]int, len(doc.Nodes))
	for id := range doc.Nodes {
		inDegree[id] = 0
	}

	for _, e := range doc.Edges {
		if _, ok := doc.Nodes[e.SourceID]; !ok {
			return jdmerr.InvalidGraph("edge references unknown source node", "edge", e.ID, "sourceId", e.SourceID)
		}
		if _, ok := doc.Nodes[e.TargetID]; !ok {
			return jdmerr.InvalidGraph("edge references unknown target node", "edge", e.ID, "targetId", e.TargetID)
		}
		if doc.Nodes[e.SourceID].Spec.Kind == node.Switch && e.SourceHandle == "" {
			return jdmerr.InvalidGraph("switch node outbound edge is missing sourceHandle", "edge", e.ID, "sourceId", e.SourceID)
		}
		outEdges[e.SourceID] = append(outEdges[e.SourceID], e)
		inDegree[e.TargetID]++
	}

	hasInput, hasOutput := false, false
	for _, n := range doc.Nodes {
		switch n.Spec.Kind {
		case node.Input:
			hasInput = true
		case node.Output:
			hasOutput = true
		}
	}
	if !hasInput {
		return jdmerr.InvalidGraph("document has no input node")
	}
	if !hasOutput {
		return jdmerr.InvalidGraph("document has no output node")
	}

	for id, n := range doc.Nodes {
		if n.Spec.Kind != node.Output && len(outEdges[id]) == 0 {
			return jdmerr.InvalidGraph("non-output node has no successor", "node", id)
		}
	}

	if err := checkAcyclic(doc, outEdges); err != nil {
		return err
	}
	return checkReachableFromInput(doc, outEdges)
}

// checkAcyclic runs a standard DFS cycle check (white/gray/black coloring),
// visiting successors in lexicographic id order for a deterministic error on
// the first cycle found across repeated validations of the same document.
func checkAcyclic(doc *Document, outEdges map[string][]Edge) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(doc.Nodes))

	ids := make([]string, 0, len(doc.Nodes))
	for id := range doc.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		succs := sortedTargets(outEdges[id])
		for _, t := range succs {
			switch color[t] {
			case gray:
				return jdmerr.InvalidGraph("cycle detected", "node", t)
			case white:
				if err := visit(t); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range ids {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkReachableFromInput(doc *Document, outEdges map[string][]Edge) error {
	reached := make(map[string]bool, len(doc.Nodes))
	var queue []string
	for id, n := range doc.Nodes {
		if n.Spec.Kind == node.Input {
			reached[id] = true
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, t := range sortedTargets(outEdges[id]) {
			if !reached[t] {
				reached[t] = true
				queue = append(queue, t)
			}
		}
	}

	for id, n := range doc.Nodes {
		if n.Spec.Kind != node.Input && !reached[id] {
			return jdmerr.InvalidGraph("node is not reachable from any input node", "node", id)
		}
	}
	return nil
}

func sortedTargets(edges []Edge) []string {
	targets := make([]string, len(edges))
	for i, e := range edges {
		targets[i] = e.TargetID
	}
	sort.Strings(targets)
	return targets
}
