package expr

import "github.com/alecthomas/participle/v2/lexer"

// exprLexer tokenizes expression and predicate strings. Multi-character
// punctuators are listed before their single-character prefixes in the same
// alternation so the longest one wins, mirroring the ordering discipline the
// teacher grammar's single Punct rule relies on.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Keyword", Pattern: `\b(true|false|null|in)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `\.\.|==|!=|<=|>=|&&|\|\||[.,()\[\]+\-*/%<>!$]`},
	{Name: "Whitespace", Pattern: `\s+`},
})
