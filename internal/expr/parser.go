package expr

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/bizrules/jdm/internal/jdmerr"
)

// Parse compiles a full expression string into an AST, per spec §4.B.
func Parse(src string) (Node, error) {
	raw, err := exprParser.ParseString("", src)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	return convertOr(raw)
}

// comparisonPrefixes lists the cell-shorthand comparison operators, longest
// first so "<=" is recognized before its "<" prefix.
var comparisonPrefixes = []string{"==", "!=", "<=", ">=", "<", ">"}

// ParsePredicate compiles a decision-table cell into an AST, applying the
// shorthand rules from spec §4.D before falling back to a full expression:
//
//   - empty string or "-"  -> literal true (always matches)
//   - a cell beginning with a bare comparison operator (e.g. "< 18",
//     "!= \"x\"") -> "$" is prepended and the rest parsed as its right-hand
//     side, per the real JDM cell convention
//   - a bare value (no operators recognizable as a full expression, e.g.
//     "42", "\"x\"", "true") -> $==value
//   - a range literal ("[18..65)") -> $ in range
//   - anything else is parsed as a full boolean expression against $
func ParsePredicate(cell string) (Node, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || trimmed == "-" {
		return &Literal{Value: true}, nil
	}

	for _, op := range comparisonPrefixes {
		if strings.HasPrefix(trimmed, op) {
			trimmed = "$ " + trimmed
			break
		}
	}

	raw, err := exprParser.ParseString("", trimmed)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	node, err := convertOr(raw)
	if err != nil {
		return nil, err
	}

	switch node.(type) {
	case *Range:
		return &In{Left: &Dollar{}, Right: node}, nil
	case *Literal, *Member, *Index, *Unary:
		return &Binary{Op: "==", Left: &Dollar{}, Right: node}, nil
	case *Ident:
		// A bare identifier in a predicate cell is a value comparison, not a
		// reference to a sibling binding ($=="active" style cells never bind
		// names): "$==name" unless the author already wrote $ explicitly,
		// which would have parsed as *Binary/*Dollar instead.
		return &Binary{Op: "==", Left: &Dollar{}, Right: node}, nil
	default:
		// Already a full boolean-shaped expression (Binary with $, Logical,
		// In, or a Dollar on its own): use as-is.
		return node, nil
	}
}

func wrapParseErr(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return jdmerr.ParseError(pos.Offset, perr.Message())
	}
	return jdmerr.ParseError(0, err.Error())
}
