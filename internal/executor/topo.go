package executor

import (
	"sort"

	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/jdmerr"
)

// topoSort computes a deterministic topological order via Kahn's algorithm:
// the ready set is always processed in lexicographic node-id order, so the
// same document always yields the same order (spec §4.F, §5 ordering
// guarantee). Document.Validate already rejects cycles at load time; this
// is evaluation's own defense in case a Document was built by hand.
func topoSort(doc *document.Document) ([]string, error) {
	inDegree := make(map[string]int, len(doc.Nodes))
	outEdges := make(map[string][]string, len(doc.Nodes))
	for id := range doc.Nodes {
		inDegree[id] = 0
	}
	for _, e := range doc.Edges {
		outEdges[e.SourceID] = append(outEdges[e.SourceID], e.TargetID)
		inDegree[e.TargetID]++
	}

	var ready []string
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(doc.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		succs := append([]string(nil), outEdges[id]...)
		sort.Strings(succs)
		for _, t := range succs {
			inDegree[t]--
			if inDegree[t] == 0 {
				pos := sort.SearchStrings(ready, t)
				ready = append(ready, "")
				copy(ready[pos+1:], ready[pos:])
				ready[pos] = t
			}
		}
	}

	if len(order) != len(doc.Nodes) {
		return nil, jdmerr.InvalidGraph("cycle detected during topological sort")
	}
	return order, nil
}
