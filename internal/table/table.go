// Package table implements the decision table interpreter from spec §4.D:
// matching rows against a context under a hit policy and assembling the
// output object.
package table

import (
	"github.com/bizrules/jdm/internal/expr"
	"github.com/bizrules/jdm/internal/value"
)

// HitPolicy selects how many matching rules contribute to the output.
type HitPolicy string

const (
	First   HitPolicy = "first"
	Collect HitPolicy = "collect"
)

// InputColumn binds a predicate cell to a context field. An empty Field
// binds the predicate's "$" to the whole context instead of one field.
type InputColumn struct {
	ID    string
	Field string
}

// OutputColumn assigns an evaluated cell expression into the result object
// at Field.
type OutputColumn struct {
	ID    string
	Field string
}

// Rule is one decision-table row: a cell string per column id.
type Rule struct {
	Cells map[string]string
}

// CompiledRule is a rule with pre-parsed cells for its declared columns,
// cached on the document so evaluation never reparses an expression.
type CompiledRule struct {
	InputPredicates map[string]expr.Node // column id -> predicate AST
	OutputExprs     map[string]expr.Node // column id -> expression AST
}

// Table is the fully compiled decision table, ready to evaluate.
type Table struct {
	HitPolicy HitPolicy
	Inputs    []InputColumn
	Outputs   []OutputColumn
	Rules     []CompiledRule
}

// Compile parses every cell's predicate/expression once, per spec §9 (parse
// at load, never at evaluation).
func Compile(hitPolicy HitPolicy, inputs []InputColumn, outputs []OutputColumn, rules []Rule) (*Table, error) {
	compiled := make([]CompiledRule, len(rules))
	for i, rule := range rules {
		cr := CompiledRule{
			InputPredicates: make(map[string]expr.Node, len(inputs)),
			OutputExprs:     make(map[string]expr.Node, len(outputs)),
		}
		for _, col := range inputs {
			cell := rule.Cells[col.ID]
			node, err := expr.ParsePredicate(cell)
			if err != nil {
				return nil, err
			}
			cr.InputPredicates[col.ID] = node
		}
		for _, col := range outputs {
			cell := rule.Cells[col.ID]
			node, err := expr.Parse(cell)
			if err != nil {
				return nil, err
			}
			cr.OutputExprs[col.ID] = node
		}
		compiled[i] = cr
	}
	return &Table{
		HitPolicy: hitPolicy,
		Inputs:    inputs,
		Outputs:   outputs,
		Rules:     compiled,
	}, nil
}

// Eval runs the table against ctx per spec §4.D: evaluate input column
// values once, then try each rule in declared order, binding "$" to the
// column's value (or the whole context when Field is empty).
func (t *Table) Eval(ctx value.Value) (value.Value, error) {
	colValues := make(map[string]value.Value, len(t.Inputs))
	for _, col := range t.Inputs {
		if col.Field == "" {
			colValues[col.ID] = ctx
			continue
		}
		colValues[col.ID] = value.Get(ctx, col.Field)
	}

	var collected []value.Value
	for _, rule := range t.Rules {
		matched, err := t.ruleMatches(rule, ctx, colValues)
		if err != nil {
			return value.Value{}, err
		}
		if !matched {
			continue
		}

		out, err := t.buildOutput(rule, ctx)
		if err != nil {
			return value.Value{}, err
		}

		if t.HitPolicy == First {
			return out, nil
		}
		collected = append(collected, out)
	}

	if t.HitPolicy == First {
		return value.ObjectValue(value.NewObj()), nil
	}
	return value.ArrayValue(collected), nil
}

func (t *Table) ruleMatches(rule CompiledRule, ctx value.Value, colValues map[string]value.Value) (bool, error) {
	for _, col := range t.Inputs {
		node := rule.InputPredicates[col.ID]
		env := expr.NewEnv(ctx).WithDollar(colValues[col.ID])
		result, err := expr.Eval(node, env)
		if err != nil {
			return false, err
		}
		if !result.Truthy() {
			return false, nil
		}
	}
	return true, nil
}

func (t *Table) buildOutput(rule CompiledRule, ctx value.Value) (value.Value, error) {
	out := value.ObjectValue(value.NewObj())
	for _, col := range t.Outputs {
		node := rule.OutputExprs[col.ID]
		v, err := expr.Eval(node, expr.NewEnv(ctx))
		if err != nil {
			return value.Value{}, err
		}
		var err2 error
		out, err2 = value.Set(out, col.Field, v)
		if err2 != nil {
			return value.Value{}, err2
		}
	}
	return out, nil
}
