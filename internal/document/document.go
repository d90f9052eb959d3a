// Package document models a parsed JDM document (spec §3/§6): the node/edge
// graph, plus every node's kind-specific content compiled into the form the
// executor and node evaluators consume directly (expression ASTs, compiled
// decision tables), so evaluation never touches raw JSON or reparses a
// string.
package document

import (
	"github.com/bizrules/jdm/internal/node"
)

// NodeKind mirrors the wire "type" values from spec §6.
type NodeKind string

const (
	InputNode         NodeKind = "inputNode"
	OutputNode        NodeKind = "outputNode"
	DecisionTableNode NodeKind = "decisionTableNode"
	ExpressionNode    NodeKind = "expressionNode"
	SwitchNode        NodeKind = "switchNode"
)

// Node is one compiled graph node: its identity plus its evaluator Spec.
type Node struct {
	ID   string
	Name string
	Kind NodeKind
	Spec node.Spec
}

// Edge connects two node ids. SourceHandle carries the switch statement id
// that activates this edge, for switch-node dispatch (spec §4.F); empty for
// edges out of any other node kind.
type Edge struct {
	ID            string
	SourceID      string
	TargetID      string
	SourceHandle  string
}

// Document is a fully parsed, validated, and compiled JDM graph: every
// expression and predicate cell has already been turned into an AST, so
// Evaluate never reparses anything (spec §9 design note).
type Document struct {
	ID    string
	Name  string
	Nodes map[string]Node
	Edges []Edge
}
