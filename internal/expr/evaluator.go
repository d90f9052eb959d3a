package expr

import (
	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/bizrules/jdm/internal/value"
)

// Env is the evaluation environment: the input/output context bindings
// ("identifiers") plus whatever "$" is currently bound to (the decision
// table input column's value, or the context root for plain expressions).
type Env struct {
	Vars   value.Value // object holding identifier bindings
	Dollar value.Value
}

// NewEnv builds an environment where both identifiers and "$" resolve
// against the same root value, the common case for node "expression"
// fields evaluated against the input context.
func NewEnv(root value.Value) Env {
	return Env{Vars: root, Dollar: root}
}

// WithDollar returns a copy of env with "$" rebound, used by the decision
// table interpreter to evaluate each input column's predicate against that
// column's value while identifiers still resolve against the surrounding
// context.
func (e Env) WithDollar(v value.Value) Env {
	e.Dollar = v
	return e
}

// Eval walks the AST against env, per spec §4.C.
func Eval(node Node, env Env) (value.Value, error) {
	switch n := node.(type) {
	case *Literal:
		return literalValue(n.Value), nil

	case *Dollar:
		return env.Dollar, nil

	case *Ident:
		return value.Get(env.Vars, n.Name), nil

	case *Member:
		target, err := Eval(n.Target, env)
		if err != nil {
			return value.Value{}, err
		}
		return value.Get(target, n.Name), nil

	case *Index:
		target, err := Eval(n.Target, env)
		if err != nil {
			return value.Value{}, err
		}
		idx, err := Eval(n.Index, env)
		if err != nil {
			return value.Value{}, err
		}
		return evalIndex(target, idx)

	case *Unary:
		return evalUnary(n, env)

	case *Binary:
		return evalBinary(n, env)

	case *Logical:
		return evalLogical(n, env)

	case *In:
		return evalIn(n, env)

	case *Range:
		// A bare range outside "in" has no standalone value; it is only
		// meaningful as the right-hand side of In.
		return value.Value{}, jdmerr.TypeMismatch("range literal used outside of 'in'")

	default:
		return value.Value{}, jdmerr.TypeMismatch("unknown expression node")
	}
}

func literalValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.NullValue()
	case bool:
		return value.BoolValue(t)
	case float64:
		return value.NumberValue(t)
	case string:
		return value.StringValue(t)
	default:
		return value.NullValue()
	}
}

func evalIndex(target, idx value.Value) (value.Value, error) {
	switch target.Kind() {
	case value.Array:
		if idx.Kind() != value.Number {
			return value.Value{}, jdmerr.TypeMismatch("array index must be a number")
		}
		i := int(idx.Number())
		items := target.Items()
		if i < 0 || i >= len(items) {
			return value.NullValue(), nil
		}
		return items[i], nil
	case value.Object:
		if idx.Kind() != value.String {
			return value.Value{}, jdmerr.TypeMismatch("object index must be a string")
		}
		v, ok := target.Obj().Get(idx.Str())
		if !ok {
			return value.NullValue(), nil
		}
		return v, nil
	case value.Null:
		return value.NullValue(), nil
	default:
		return value.Value{}, jdmerr.TypeMismatch("cannot index into a scalar value")
	}
}

func evalUnary(n *Unary, env Env) (value.Value, error) {
	operand, err := Eval(n.Operand, env)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "-":
		if operand.Kind() != value.Number {
			return value.Value{}, jdmerr.TypeMismatch("unary '-' requires a number")
		}
		return value.NumberValue(-operand.Number()), nil
	case "!":
		return value.BoolValue(!operand.Truthy()), nil
	default:
		return value.Value{}, jdmerr.TypeMismatch("unknown unary operator " + n.Op)
	}
}

func evalLogical(n *Logical, env Env) (value.Value, error) {
	left, err := Eval(n.Left, env)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "&&":
		if !left.Truthy() {
			return left, nil
		}
		return Eval(n.Right, env)
	case "||":
		if left.Truthy() {
			return left, nil
		}
		return Eval(n.Right, env)
	default:
		return value.Value{}, jdmerr.TypeMismatch("unknown logical operator " + n.Op)
	}
}

func evalBinary(n *Binary, env Env) (value.Value, error) {
	left, err := Eval(n.Left, env)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(n.Right, env)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "==":
		return value.BoolValue(left.Equal(right)), nil
	case "!=":
		return value.BoolValue(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		cmp, err := value.Compare(left, right)
		if err != nil {
			return value.Value{}, err
		}
		switch n.Op {
		case "<":
			return value.BoolValue(cmp < 0), nil
		case "<=":
			return value.BoolValue(cmp <= 0), nil
		case ">":
			return value.BoolValue(cmp > 0), nil
		default:
			return value.BoolValue(cmp >= 0), nil
		}
	case "+", "-", "*", "/", "%":
		return evalArithmetic(n.Op, left, right)
	default:
		return value.Value{}, jdmerr.TypeMismatch("unknown binary operator " + n.Op)
	}
}

func evalArithmetic(op string, left, right value.Value) (value.Value, error) {
	if left.Kind() != value.Number || right.Kind() != value.Number {
		return value.Value{}, jdmerr.TypeMismatch("arithmetic requires numbers", "op", op)
	}
	a, b := left.Number(), right.Number()
	switch op {
	case "+":
		return value.NumberValue(a + b), nil
	case "-":
		return value.NumberValue(a - b), nil
	case "*":
		return value.NumberValue(a * b), nil
	case "/":
		if b == 0 {
			return value.Value{}, jdmerr.DivisionByZero()
		}
		return value.NumberValue(a / b), nil
	case "%":
		if b == 0 {
			return value.Value{}, jdmerr.DivisionByZero()
		}
		return value.NumberValue(float64(int64(a) % int64(b))), nil
	default:
		return value.Value{}, jdmerr.TypeMismatch("unknown arithmetic operator " + op)
	}
}

func evalIn(n *In, env Env) (value.Value, error) {
	left, err := Eval(n.Left, env)
	if err != nil {
		return value.Value{}, err
	}

	if rangeLit, ok := n.Right.(*Range); ok {
		return evalInRange(left, rangeLit, env)
	}

	right, err := Eval(n.Right, env)
	if err != nil {
		return value.Value{}, err
	}
	if right.Kind() != value.Array {
		return value.Value{}, jdmerr.TypeMismatch("'in' right-hand side must be an array or range")
	}
	for _, item := range right.Items() {
		if left.Equal(item) {
			return value.BoolValue(true), nil
		}
	}
	return value.BoolValue(false), nil
}

func evalInRange(left value.Value, r *Range, env Env) (value.Value, error) {
	low, err := Eval(r.Low, env)
	if err != nil {
		return value.Value{}, err
	}
	high, err := Eval(r.High, env)
	if err != nil {
		return value.Value{}, err
	}

	lowCmp, err := value.Compare(left, low)
	if err != nil {
		return value.Value{}, err
	}
	highCmp, err := value.Compare(left, high)
	if err != nil {
		return value.Value{}, err
	}

	lowOK := lowCmp > 0 || (!r.LowOpen && lowCmp == 0)
	highOK := highCmp < 0 || (!r.HighOpen && highCmp == 0)
	return value.BoolValue(lowOK && highOK), nil
}
