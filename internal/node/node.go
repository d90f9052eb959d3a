// Package node implements one evaluator per JDM node kind (spec §4.E): the
// tagged-variant dispatch the engine uses instead of the exception/class
// hierarchy the original model used, per the node-polymorphism design note.
package node

import (
	"github.com/bizrules/jdm/internal/expr"
	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/bizrules/jdm/internal/table"
	"github.com/bizrules/jdm/internal/value"
)

// Kind identifies a node's variant.
type Kind string

const (
	Input          Kind = "input"
	Output         Kind = "output"
	Expression     Kind = "expression"
	DecisionTable  Kind = "decision_table"
	Switch         Kind = "switch"
)

// Assignment is one compiled (path, expression) pair of an expression node,
// evaluated and applied in declared order.
type Assignment struct {
	Path string
	Expr expr.Node
}

// Statement is one compiled switch branch.
type Statement struct {
	ID        string
	Condition expr.Node
	IsDefault bool
}

// Spec is the compiled, kind-specific payload of a node. Only the fields
// marked for Kind are populated (none for Input and Output).
type Spec struct {
	Kind Kind

	Assignments []Assignment // Expression

	Table *table.Table // DecisionTable

	Statements []Statement    // Switch
	HitPolicy  table.HitPolicy // Switch
}

// Result is what evaluating a node produces: the output context, plus — for
// switch nodes only — the set of statement ids that matched, used by the
// graph executor to prune dead edges.
type Result struct {
	Context        value.Value
	MatchedStmtIDs []string // only meaningful for Switch
}

// Eval dispatches on spec.Kind and runs the corresponding node behavior
// against ctx, the node's merged inbound context.
func Eval(spec Spec, ctx value.Value) (Result, error) {
	switch spec.Kind {
	case Input:
		return Result{Context: ctx}, nil

	case Output:
		return Result{Context: ctx}, nil

	case Expression:
		return evalExpression(spec, ctx)

	case DecisionTable:
		out, err := spec.Table.Eval(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Context: out}, nil

	case Switch:
		return evalSwitch(spec, ctx)

	default:
		return Result{}, jdmerr.UnknownNodeKind(string(spec.Kind))
	}
}

func evalExpression(spec Spec, ctx value.Value) (Result, error) {
	acc := ctx
	for _, a := range spec.Assignments {
		v, err := expr.Eval(a.Expr, expr.NewEnv(acc))
		if err != nil {
			return Result{}, err
		}
		next, err := value.Set(acc, a.Path, v)
		if err != nil {
			return Result{}, err
		}
		acc = next
	}
	return Result{Context: acc}, nil
}

func evalSwitch(spec Spec, ctx value.Value) (Result, error) {
	env := expr.NewEnv(ctx)
	var matched []string
	var defaultID string
	hasDefault := false

	for _, stmt := range spec.Statements {
		if stmt.IsDefault {
			hasDefault = true
			defaultID = stmt.ID
			continue
		}
		v, err := expr.Eval(stmt.Condition, env)
		if err != nil {
			return Result{}, err
		}
		if v.Truthy() {
			matched = append(matched, stmt.ID)
			if spec.HitPolicy == table.First {
				break
			}
		}
	}

	if len(matched) == 0 && hasDefault {
		matched = []string{defaultID}
	}

	return Result{Context: ctx, MatchedStmtIDs: matched}, nil
}
