package expr

import "github.com/alecthomas/participle/v2"

// Grammar is participle's raw parse tree. Precedence low -> high follows
// spec §4.B exactly: || < && < comparison < in < additive < multiplicative <
// unary < primary. Left-associative chains are flattened into a head plus a
// "rest" list (participle has no left recursion) and folded into a binary
// tree in convert.go.

type OrExpr struct {
	Left *AndExpr    `parser:"@@"`
	Rest []*OrRest   `parser:"@@*"`
}

type OrRest struct {
	Op    string   `parser:"@\"||\""`
	Right *AndExpr `parser:"@@"`
}

type AndExpr struct {
	Left *CompExpr `parser:"@@"`
	Rest []*AndRest `parser:"@@*"`
}

type AndRest struct {
	Op    string    `parser:"@\"&&\""`
	Right *CompExpr `parser:"@@"`
}

type CompExpr struct {
	Left  *InExpr      `parser:"@@"`
	Op    *string      `parser:"( @(\"==\"|\"!=\"|\"<=\"|\">=\"|\"<\"|\">\")"`
	Right *InExpr      `parser:"  @@ )?"`
}

type InExpr struct {
	Left *AddExpr `parser:"@@"`
	In   *bool    `parser:"( @\"in\""`
	Right *AddExpr `parser:"  @@ )?"`
}

type AddExpr struct {
	Left *MulExpr   `parser:"@@"`
	Rest []*AddRest `parser:"@@*"`
}

type AddRest struct {
	Op    string   `parser:"@(\"+\"|\"-\")"`
	Right *MulExpr `parser:"@@"`
}

type MulExpr struct {
	Left *UnaryExpr `parser:"@@"`
	Rest []*MulRest `parser:"@@*"`
}

type MulRest struct {
	Op    string     `parser:"@(\"*\"|\"/\"|\"%\")"`
	Right *UnaryExpr `parser:"@@"`
}

// UnaryExpr handles prefix "-" and "!"; both are non-chaining in this
// grammar: at most one operator precedes the Postfix, so "--x" is a parse
// error, while "-(-x)" parses as two Unary AST nodes.
type UnaryExpr struct {
	Op      *string  `parser:"@(\"-\"|\"!\")?"`
	Postfix *Postfix `parser:"@@"`
}

// Postfix is a primary followed by zero or more member/index accessors.
type Postfix struct {
	Primary   *Primary     `parser:"@@"`
	Accessors []*Accessor  `parser:"@@*"`
}

type Accessor struct {
	Member *string `parser:"(  \".\" @Ident"`
	Index  *OrExpr `parser:" | \"[\" @@ \"]\" )"`
}

// Primary is every terminal form: literals, $, identifiers, parenthesized
// expressions, and range literals.
type Primary struct {
	Float   *float64       `parser:"(  @Float"`
	Int     *int64         `parser:" | @Int"`
	Str     *string        `parser:" | @String"`
	True    bool           `parser:" | @\"true\""`
	False   bool           `parser:" | @\"false\""`
	Null    bool           `parser:" | @\"null\""`
	Dollar  bool           `parser:" | @\"$\""`
	Bracket *BracketedExpr `parser:" | @@"`
	Ident   *string        `parser:" | @Ident )"`
}

// BracketedExpr parses both a parenthesized expression "(expr)" and a range
// literal "[lo..hi]" / "(lo..hi]" / etc with one unambiguous rule: the ".."
// is simply optional after the first sub-expression. Two grammar rules
// starting with "(" (Paren vs Range) would need unbounded lookahead to
// disambiguate in an LL parser; folding them into one rule with an optional
// ".." sidesteps that entirely. convert.go tells them apart by whether
// DotDot was captured.
type BracketedExpr struct {
	Open   string  `parser:"@(\"(\"|\"[\")"`
	First  *OrExpr `parser:"@@"`
	DotDot *string `parser:"@\"..\"?"`
	Second *OrExpr `parser:"( @@ )?"`
	Close  string  `parser:"@(\")\"|\"]\")"`
}

// exprParser is the package singleton built from the grammar, mirroring the
// teacher's dslParser package-level participle.MustBuild.
var exprParser = participle.MustBuild[OrExpr](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
