package expr

import (
	"testing"

	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/bizrules/jdm/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEval(t *testing.T, src string, root value.Value) value.Value {
	t.Helper()
	node, err := Parse(src)
	require.NoError(t, err)
	v, err := Eval(node, NewEnv(root))
	require.NoError(t, err)
	return v
}

func TestEvalArithmeticAndComparison(t *testing.T) {
	root := value.ObjectValue(value.NewObj())
	v := mustEval(t, "2 + 3 * 4 > 10", root)
	assert.True(t, v.Truthy())
}

func TestEvalArithmeticOnStringsIsTypeMismatch(t *testing.T) {
	node, err := Parse(`"a" + "b"`)
	require.NoError(t, err)
	_, err = Eval(node, NewEnv(value.NullValue()))
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.TypeMismatchKind))
}

func TestEvalDivisionByZero(t *testing.T) {
	node, err := Parse("1 / 0")
	require.NoError(t, err)
	_, err = Eval(node, NewEnv(value.NullValue()))
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.DivisionByZeroKind))
}

func TestEvalLogicalShortCircuitReturnsOperandValue(t *testing.T) {
	root := value.ObjectValue(value.NewObj())
	v := mustEval(t, `false && (1/0 == 0)`, root)
	assert.False(t, v.Truthy())

	v = mustEval(t, `"x" || false`, root)
	assert.Equal(t, value.String, v.Kind())
	assert.Equal(t, "x", v.Str())
}

func TestEvalIdentifierMissingIsNull(t *testing.T) {
	root := value.ObjectValue(value.NewObj())
	v := mustEval(t, "missing", root)
	assert.True(t, v.IsNull())
}

func TestEvalInArray(t *testing.T) {
	root := value.ObjectValue(value.NewObj())
	v := mustEval(t, `"b" in ["a","b","c"]`, root)
	assert.True(t, v.Truthy())
}

func TestEvalInRangeInclusivity(t *testing.T) {
	obj := value.NewObj()
	obj.Set("age", value.NumberValue(18))
	root := value.ObjectValue(obj)

	v := mustEval(t, "age in [18..65]", root)
	assert.True(t, v.Truthy())

	v = mustEval(t, "age in (18..65]", root)
	assert.False(t, v.Truthy())
}

func TestEvalDollarBindingForPredicates(t *testing.T) {
	node, err := ParsePredicate("[18..65)")
	require.NoError(t, err)

	v, err := Eval(node, NewEnv(value.NullValue()).WithDollar(value.NumberValue(64)))
	require.NoError(t, err)
	assert.True(t, v.Truthy())

	v, err = Eval(node, NewEnv(value.NullValue()).WithDollar(value.NumberValue(65)))
	require.NoError(t, err)
	assert.False(t, v.Truthy())
}

func TestEvalTypeMismatchOnCompare(t *testing.T) {
	node, err := Parse(`1 < "a"`)
	require.NoError(t, err)
	_, err = Eval(node, NewEnv(value.NullValue()))
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.TypeMismatchKind))
}

func TestEvalMemberAndIndexChain(t *testing.T) {
	inner := value.NewObj()
	inner.Set("name", value.StringValue("Ann"))
	arr := value.ArrayValue([]value.Value{value.ObjectValue(inner)})
	root := value.NewObj()
	root.Set("users", arr)

	v := mustEval(t, "users[0].name", value.ObjectValue(root))
	assert.Equal(t, "Ann", v.Str())
}
