package table

import (
	"testing"

	"github.com/bizrules/jdm/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFirstHitPolicyAgeTiers mirrors S3 from the testable-properties scenario
// list: first matching age bracket wins.
func TestFirstHitPolicyAgeTiers(t *testing.T) {
	tbl, err := Compile(First,
		[]InputColumn{{ID: "age", Field: "customer.age"}},
		[]OutputColumn{{ID: "tier", Field: "tier"}},
		[]Rule{
			{Cells: map[string]string{"age": "< 18", "tier": `"minor"`}},
			{Cells: map[string]string{"age": "[18..65]", "tier": `"adult"`}},
			{Cells: map[string]string{"age": "> 65", "tier": `"senior"`}},
		},
	)
	require.NoError(t, err)

	customer := value.NewObj()
	customer.Set("age", value.NumberValue(30))
	ctx := value.ObjectValue(value.NewObj())
	ctx, err = value.Set(ctx, "customer", value.ObjectValue(customer))
	require.NoError(t, err)

	out, err := tbl.Eval(ctx)
	require.NoError(t, err)
	assert.Equal(t, "adult", value.Get(out, "tier").Str())
}

func TestCollectHitPolicyAccumulatesArray(t *testing.T) {
	tbl, err := Compile(Collect,
		[]InputColumn{{ID: "x", Field: "x"}},
		[]OutputColumn{{ID: "tag", Field: "tag"}},
		[]Rule{
			{Cells: map[string]string{"x": "> 0", "tag": `"positive"`}},
			{Cells: map[string]string{"x": "", "tag": `"any"`}},
		},
	)
	require.NoError(t, err)

	obj := value.NewObj()
	obj.Set("x", value.NumberValue(5))
	out, err := tbl.Eval(value.ObjectValue(obj))
	require.NoError(t, err)

	require.Equal(t, value.Array, out.Kind())
	items := out.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "positive", value.Get(items[0], "tag").Str())
	assert.Equal(t, "any", value.Get(items[1], "tag").Str())
}

// TestFirstDominanceOverCollect covers invariant 5 from spec §8: the first
// hit policy's result equals the first element collect would produce.
func TestFirstDominanceOverCollect(t *testing.T) {
	inputs := []InputColumn{{ID: "x", Field: "x"}}
	outputs := []OutputColumn{{ID: "tag", Field: "tag"}}
	rules := []Rule{
		{Cells: map[string]string{"x": "> 0", "tag": `"positive"`}},
		{Cells: map[string]string{"x": "", "tag": `"any"`}},
	}

	firstTbl, err := Compile(First, inputs, outputs, rules)
	require.NoError(t, err)
	collectTbl, err := Compile(Collect, inputs, outputs, rules)
	require.NoError(t, err)

	obj := value.NewObj()
	obj.Set("x", value.NumberValue(5))
	ctx := value.ObjectValue(obj)

	firstOut, err := firstTbl.Eval(ctx)
	require.NoError(t, err)
	collectOut, err := collectTbl.Eval(ctx)
	require.NoError(t, err)

	require.Equal(t, value.Array, collectOut.Kind())
	assert.True(t, firstOut.Equal(collectOut.Items()[0]))
}

func TestNoMatchUnderFirstReturnsEmptyObject(t *testing.T) {
	tbl, err := Compile(First,
		[]InputColumn{{ID: "x", Field: "x"}},
		[]OutputColumn{{ID: "tag", Field: "tag"}},
		[]Rule{
			{Cells: map[string]string{"x": "> 100", "tag": `"big"`}},
		},
	)
	require.NoError(t, err)

	obj := value.NewObj()
	obj.Set("x", value.NumberValue(1))
	out, err := tbl.Eval(value.ObjectValue(obj))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Obj().Len())
}

func TestEmptyFieldBindsWholeContext(t *testing.T) {
	tbl, err := Compile(First,
		[]InputColumn{{ID: "whole"}},
		[]OutputColumn{{ID: "ok", Field: "ok"}},
		[]Rule{
			{Cells: map[string]string{"whole": "$.x > 0", "ok": "true"}},
		},
	)
	require.NoError(t, err)

	obj := value.NewObj()
	obj.Set("x", value.NumberValue(1))
	out, err := tbl.Eval(value.ObjectValue(obj))
	require.NoError(t, err)
	assert.True(t, value.Get(out, "ok").Truthy())
}
