package expr

import "github.com/bizrules/jdm/internal/jdmerr"

// convert folds participle's raw parse tree (grammar.go) into the AST
// (ast.go), resolving left-associative Rest-list chains into binary trees
// and interpreting BracketedExpr into either a plain parenthesized
// sub-expression or a Range node.

func convertOr(n *OrExpr) (Node, error) {
	left, err := convertAnd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := convertAnd(r.Right)
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: r.Op, Left: left, Right: right}
	}
	return left, nil
}

func convertAnd(n *AndExpr) (Node, error) {
	left, err := convertComp(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := convertComp(r.Right)
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: r.Op, Left: left, Right: right}
	}
	return left, nil
}

func convertComp(n *CompExpr) (Node, error) {
	left, err := convertIn(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Op == nil {
		return left, nil
	}
	right, err := convertIn(n.Right)
	if err != nil {
		return nil, err
	}
	return &Binary{Op: *n.Op, Left: left, Right: right}, nil
}

func convertIn(n *InExpr) (Node, error) {
	left, err := convertAdd(n.Left)
	if err != nil {
		return nil, err
	}
	if n.In == nil {
		return left, nil
	}
	right, err := convertAdd(n.Right)
	if err != nil {
		return nil, err
	}
	return &In{Left: left, Right: right}, nil
}

func convertAdd(n *AddExpr) (Node, error) {
	left, err := convertMul(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := convertMul(r.Right)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: r.Op, Left: left, Right: right}
	}
	return left, nil
}

func convertMul(n *MulExpr) (Node, error) {
	left, err := convertUnary(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := convertUnary(r.Right)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: r.Op, Left: left, Right: right}
	}
	return left, nil
}

func convertUnary(n *UnaryExpr) (Node, error) {
	operand, err := convertPostfix(n.Postfix)
	if err != nil {
		return nil, err
	}
	if n.Op == nil {
		return operand, nil
	}
	return &Unary{Op: *n.Op, Operand: operand}, nil
}

func convertPostfix(n *Postfix) (Node, error) {
	node, err := convertPrimary(n.Primary)
	if err != nil {
		return nil, err
	}
	for _, acc := range n.Accessors {
		switch {
		case acc.Member != nil:
			node = &Member{Target: node, Name: *acc.Member}
		case acc.Index != nil:
			idx, err := convertOr(acc.Index)
			if err != nil {
				return nil, err
			}
			node = &Index{Target: node, Index: idx}
		default:
			return nil, jdmerr.ParseError(0, "malformed accessor")
		}
	}
	return node, nil
}

func convertPrimary(n *Primary) (Node, error) {
	switch {
	case n.Float != nil:
		return &Literal{Value: *n.Float}, nil
	case n.Int != nil:
		return &Literal{Value: float64(*n.Int)}, nil
	case n.Str != nil:
		return &Literal{Value: unquote(*n.Str)}, nil
	case n.True:
		return &Literal{Value: true}, nil
	case n.False:
		return &Literal{Value: false}, nil
	case n.Null:
		return &Literal{Value: nil}, nil
	case n.Dollar:
		return &Dollar{}, nil
	case n.Bracket != nil:
		return convertBracket(n.Bracket)
	case n.Ident != nil:
		return &Ident{Name: *n.Ident}, nil
	default:
		return nil, jdmerr.ParseError(0, "empty primary expression")
	}
}

func convertBracket(n *BracketedExpr) (Node, error) {
	first, err := convertOr(n.First)
	if err != nil {
		return nil, err
	}
	if n.DotDot == nil {
		if n.Open != "(" || n.Close != ")" {
			return nil, jdmerr.ParseError(0, "mismatched range brackets in parenthesized expression")
		}
		return first, nil
	}
	if n.Second == nil {
		return nil, jdmerr.ParseError(0, "range literal missing upper bound")
	}
	high, err := convertOr(n.Second)
	if err != nil {
		return nil, err
	}
	return &Range{
		Low:      first,
		High:     high,
		LowOpen:  n.Open == "(",
		HighOpen: n.Close == ")",
	}, nil
}

// unquote strips the surrounding double quotes and resolves backslash
// escapes captured by the lexer's String token.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, body[i])
			}
			continue
		}
		out = append(out, body[i])
	}
	return string(out)
}
