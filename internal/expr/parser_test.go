package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrecedence(t *testing.T) {
	node, err := Parse("1 + 2 * 3 == 7 && true")
	require.NoError(t, err)

	logical, ok := node.(*Logical)
	require.True(t, ok, "top level must be &&")
	assert.Equal(t, "&&", logical.Op)

	cmp, ok := logical.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "==", cmp.Op)

	add, ok := cmp.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)

	mul, ok := add.Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseMemberAndIndex(t *testing.T) {
	node, err := Parse(`a.b[0].c`)
	require.NoError(t, err)

	member, ok := node.(*Member)
	require.True(t, ok)
	assert.Equal(t, "c", member.Name)

	idx, ok := member.Target.(*Index)
	require.True(t, ok)

	b, ok := idx.Target.(*Member)
	require.True(t, ok)
	assert.Equal(t, "b", b.Name)
}

func TestParseRangeBracketShapes(t *testing.T) {
	node, err := Parse("$ in (18..65]")
	require.NoError(t, err)

	in, ok := node.(*In)
	require.True(t, ok)
	_, ok = in.Left.(*Dollar)
	require.True(t, ok)

	r, ok := in.Right.(*Range)
	require.True(t, ok)
	assert.True(t, r.LowOpen)
	assert.False(t, r.HighOpen)
}

func TestParseParenGrouping(t *testing.T) {
	node, err := Parse("(1 + 2) * 3")
	require.NoError(t, err)
	mul, ok := node.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
	_, ok = mul.Left.(*Binary)
	require.True(t, ok)
}

func TestParsePredicateShorthand(t *testing.T) {
	cases := []struct {
		cell string
		want string // type name of the resulting node
	}{
		{"", "*Literal"},
		{"-", "*Literal"},
		{"42", "*Binary"},
		{`"active"`, "*Binary"},
		{"[18..65)", "*In"},
		{"$ > 10", "*Binary"},
		{"< 18", "*Binary"},
		{"<= 18", "*Binary"},
		{">= 65", "*Binary"},
		{"!= 0", "*Binary"},
	}
	for _, c := range cases {
		node, err := ParsePredicate(c.cell)
		require.NoError(t, err, c.cell)
		switch c.want {
		case "*Literal":
			_, ok := node.(*Literal)
			assert.True(t, ok, "cell %q", c.cell)
		case "*Binary":
			_, ok := node.(*Binary)
			assert.True(t, ok, "cell %q", c.cell)
		case "*In":
			_, ok := node.(*In)
			assert.True(t, ok, "cell %q", c.cell)
		}
	}
}

func TestParsePredicateBareComparisonBindsDollar(t *testing.T) {
	node, err := ParsePredicate("< 18")
	require.NoError(t, err)

	bin, ok := node.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "<", bin.Op)

	_, ok = bin.Left.(*Dollar)
	require.True(t, ok, "left side must bind $")

	lit, ok := bin.Right.(*Literal)
	require.True(t, ok)
	assert.Equal(t, float64(18), lit.Value)
}

func TestParsePredicateBareLessOrEqualDoesNotMisparseAsLess(t *testing.T) {
	node, err := ParsePredicate("<= 65")
	require.NoError(t, err)
	bin, ok := node.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "<=", bin.Op)
}

func TestParseInvalidExpressionReturnsParseError(t *testing.T) {
	_, err := Parse("1 + ")
	require.Error(t, err)
}
