package node

import (
	"testing"

	"github.com/bizrules/jdm/internal/expr"
	"github.com/bizrules/jdm/internal/table"
	"github.com/bizrules/jdm/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) expr.Node {
	t.Helper()
	n, err := expr.Parse(src)
	require.NoError(t, err)
	return n
}

func TestInputOutputPassThrough(t *testing.T) {
	ctx := value.ObjectValue(value.NewObj())
	res, err := Eval(Spec{Kind: Input}, ctx)
	require.NoError(t, err)
	assert.True(t, res.Context.Equal(ctx))

	res, err = Eval(Spec{Kind: Output}, ctx)
	require.NoError(t, err)
	assert.True(t, res.Context.Equal(ctx))
}

func TestExpressionNodeNestedAssignment(t *testing.T) {
	spec := Spec{
		Kind: Expression,
		Assignments: []Assignment{
			{Path: "a.b.c", Expr: mustParse(t, "1 + 2")},
		},
	}
	res, err := Eval(spec, value.ObjectValue(value.NewObj()))
	require.NoError(t, err)
	assert.Equal(t, float64(3), value.Get(res.Context, "a.b.c").Number())
}

func TestExpressionNodeLaterSeesEarlier(t *testing.T) {
	spec := Spec{
		Kind: Expression,
		Assignments: []Assignment{
			{Path: "result", Expr: mustParse(t, "input * 2")},
			{Path: "doubled_again", Expr: mustParse(t, "result * 2")},
		},
	}
	obj := value.NewObj()
	obj.Set("input", value.NumberValue(15))
	res, err := Eval(spec, value.ObjectValue(obj))
	require.NoError(t, err)
	assert.Equal(t, float64(30), value.Get(res.Context, "result").Number())
	assert.Equal(t, float64(60), value.Get(res.Context, "doubled_again").Number())
}

func TestSwitchNodeFirstHitPolicyWithDefault(t *testing.T) {
	spec := Spec{
		Kind:      Switch,
		HitPolicy: table.First,
		Statements: []Statement{
			{ID: "A", Condition: mustParse(t, "x > 0")},
			{ID: "B", IsDefault: true},
		},
	}

	obj := value.NewObj()
	obj.Set("x", value.NumberValue(-1))
	res, err := Eval(spec, value.ObjectValue(obj))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, res.MatchedStmtIDs)
	assert.True(t, res.Context.Equal(value.ObjectValue(obj)))
}

func TestSwitchNodeMatchingBranchWinsOverDefault(t *testing.T) {
	spec := Spec{
		Kind:      Switch,
		HitPolicy: table.First,
		Statements: []Statement{
			{ID: "A", Condition: mustParse(t, "x > 0")},
			{ID: "B", IsDefault: true},
		},
	}

	obj := value.NewObj()
	obj.Set("x", value.NumberValue(1))
	res, err := Eval(spec, value.ObjectValue(obj))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.MatchedStmtIDs)
}

func TestUnknownNodeKind(t *testing.T) {
	_, err := Eval(Spec{Kind: "bogus"}, value.ObjectValue(value.NewObj()))
	require.Error(t, err)
}
