package document

import (
	"encoding/json"

	"github.com/bizrules/jdm/internal/expr"
	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/bizrules/jdm/internal/node"
	"github.com/bizrules/jdm/internal/table"
)

// Parse decodes raw JSON bytes into a fully compiled, validated Document:
// every expression and predicate cell is parsed exactly once, here, per the
// "parse at load" design note in spec §9.
func Parse(data []byte) (*Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, jdmerr.InvalidGraph("malformed JDM document JSON: " + err.Error())
	}

	doc := &Document{
		ID:    wire.ID,
		Name:  wire.Name,
		Nodes: make(map[string]Node, len(wire.Nodes)),
	}

	for id, wn := range wire.Nodes {
		if wn.ID != "" && wn.ID != id {
			return nil, jdmerr.InvalidGraph("node key does not match its id field", "key", id, "id", wn.ID)
		}
		compiled, kind, err := compileNode(wn)
		if err != nil {
			return nil, err
		}
		doc.Nodes[id] = Node{ID: id, Name: wn.Name, Kind: kind, Spec: compiled}
	}

	for _, we := range wire.Edges {
		doc.Edges = append(doc.Edges, Edge{
			ID:           we.ID,
			SourceID:     we.SourceID,
			TargetID:     we.TargetID,
			SourceHandle: we.SourceHandle,
		})
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func compileNode(wn wireNode) (node.Spec, NodeKind, error) {
	kind := NodeKind(wn.Type)
	switch kind {
	case InputNode:
		return node.Spec{Kind: node.Input}, kind, nil

	case OutputNode:
		return node.Spec{Kind: node.Output}, kind, nil

	case ExpressionNode:
		spec, err := compileExpressionNode(wn.Content)
		return spec, kind, err

	case DecisionTableNode:
		spec, err := compileDecisionTableNode(wn.Content)
		return spec, kind, err

	case SwitchNode:
		spec, err := compileSwitchNode(wn.Content)
		return spec, kind, err

	default:
		return node.Spec{}, kind, jdmerr.UnknownNodeKind(wn.Type)
	}
}

func compileExpressionNode(raw json.RawMessage) (node.Spec, error) {
	var content wireExpressionContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return node.Spec{}, jdmerr.InvalidGraph("malformed expression node content: " + err.Error())
	}
	pairs, err := decodeOrderedPairs(content.Expressions)
	if err != nil {
		return node.Spec{}, jdmerr.InvalidGraph("malformed expression node content: " + err.Error())
	}

	assignments := make([]node.Assignment, len(pairs))
	for i, p := range pairs {
		ast, err := expr.Parse(p.Value)
		if err != nil {
			return node.Spec{}, err
		}
		assignments[i] = node.Assignment{Path: p.Key, Expr: ast}
	}
	return node.Spec{Kind: node.Expression, Assignments: assignments}, nil
}

func compileDecisionTableNode(raw json.RawMessage) (node.Spec, error) {
	var content wireDecisionTableContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return node.Spec{}, jdmerr.InvalidGraph("malformed decision table content: " + err.Error())
	}

	hitPolicy, err := parseHitPolicy(content.HitPolicy)
	if err != nil {
		return node.Spec{}, err
	}

	inputs := make([]table.InputColumn, len(content.Inputs))
	for i, c := range content.Inputs {
		inputs[i] = table.InputColumn{ID: c.ID, Field: c.Field}
	}
	outputs := make([]table.OutputColumn, len(content.Outputs))
	for i, c := range content.Outputs {
		outputs[i] = table.OutputColumn{ID: c.ID, Field: c.Field}
	}
	rules := make([]table.Rule, len(content.Rules))
	for i, r := range content.Rules {
		rules[i] = table.Rule{Cells: r}
	}

	compiled, err := table.Compile(hitPolicy, inputs, outputs, rules)
	if err != nil {
		return node.Spec{}, err
	}
	return node.Spec{Kind: node.DecisionTable, Table: compiled}, nil
}

func compileSwitchNode(raw json.RawMessage) (node.Spec, error) {
	var content wireSwitchContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return node.Spec{}, jdmerr.InvalidGraph("malformed switch node content: " + err.Error())
	}

	hitPolicy, err := parseHitPolicy(content.HitPolicy)
	if err != nil {
		return node.Spec{}, err
	}

	statements := make([]node.Statement, len(content.Statements))
	for i, s := range content.Statements {
		stmt := node.Statement{ID: s.ID, IsDefault: s.IsDefault}
		if !s.IsDefault {
			ast, err := expr.ParsePredicate(s.Condition)
			if err != nil {
				return node.Spec{}, err
			}
			stmt.Condition = ast
		}
		statements[i] = stmt
	}
	return node.Spec{Kind: node.Switch, Statements: statements, HitPolicy: hitPolicy}, nil
}

func parseHitPolicy(raw string) (table.HitPolicy, error) {
	switch table.HitPolicy(raw) {
	case table.First:
		return table.First, nil
	case table.Collect:
		return table.Collect, nil
	default:
		return "", jdmerr.InvalidGraph("unknown hit policy", "hitPolicy", raw)
	}
}
