package value

import (
	"testing"

	"github.com/bizrules/jdm/internal/jdmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", NullValue(), false},
		{"false", BoolValue(false), false},
		{"true", BoolValue(true), true},
		{"zero", NumberValue(0), false},
		{"nonzero", NumberValue(1), true},
		{"empty string", StringValue(""), false},
		{"nonempty string", StringValue("x"), true},
		{"empty array", ArrayValue(nil), false},
		{"nonempty array", ArrayValue([]Value{NumberValue(1)}), true},
		{"empty object", ObjectValue(NewObj()), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.Truthy())
		})
	}
}

func TestEqualNoCoercion(t *testing.T) {
	assert.False(t, NumberValue(1).Equal(StringValue("1")), "number must not equal numerically-equal string")
	assert.True(t, NumberValue(1).Equal(NumberValue(1)))
	assert.True(t, StringValue("a").Equal(StringValue("a")))
}

func TestCompareRequiresSameScalarKind(t *testing.T) {
	c, err := Compare(NumberValue(1), NumberValue(2))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(StringValue("b"), StringValue("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = Compare(NumberValue(1), StringValue("1"))
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.TypeMismatchKind))
}

func TestGetSetDottedPath(t *testing.T) {
	root := ObjectValue(NewObj())
	updated, err := Set(root, "a.b.c", NumberValue(3))
	require.NoError(t, err)

	assert.Equal(t, float64(3), Get(updated, "a.b.c").Number())
	assert.True(t, Get(root, "a.b.c").IsNull(), "original root must be untouched")
}

func TestGetMissingKeyIsNull(t *testing.T) {
	root := ObjectValue(NewObj())
	assert.True(t, Get(root, "missing.path").IsNull())
}

func TestSetThroughNonObjectIsTypeMismatch(t *testing.T) {
	obj := NewObj()
	obj.Set("a", NumberValue(1))
	root := ObjectValue(obj)

	_, err := Set(root, "a.b", NumberValue(2))
	require.Error(t, err)
	assert.True(t, jdmerr.Is(err, jdmerr.TypeMismatchKind))
}

func TestDeepCloneIsIndependent(t *testing.T) {
	inner := NewObj()
	inner.Set("x", NumberValue(1))
	root := ObjectValue(inner)

	clone := DeepClone(root)
	mutated, err := Set(clone, "x", NumberValue(99))
	require.NoError(t, err)

	assert.Equal(t, float64(99), Get(mutated, "x").Number())
	assert.Equal(t, float64(1), Get(root, "x").Number())
}

func TestJSONRoundTripPreservesOrder(t *testing.T) {
	src := []byte(`{"z":1,"a":2,"m":3}`)
	v, err := FromJSON(src)
	require.NoError(t, err)

	require.Equal(t, Object, v.Kind())
	assert.Equal(t, []string{"z", "a", "m"}, v.Obj().Keys())

	out, err := v.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(src), string(out))
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(out))
}
