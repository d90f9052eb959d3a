// Package value implements the dynamic JSON-shaped Value that flows between
// every node in a graph evaluation: a tagged variant over null, boolean,
// number, string, array, and object, with structural equality, a partial
// ordering over numbers and strings, and the truthiness rule the expression
// evaluator uses for "!" and short-circuit logical operators.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bizrules/jdm/internal/jdmerr"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the universal currency between nodes: never pun it into a static
// record internally — callers pun at the boundary (document JSON decoding,
// HTTP demo handlers).
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *Obj
}

// NullValue returns the null Value.
func NullValue() Value { return Value{kind: Null} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps an IEEE 754 double.
func NumberValue(n float64) Value { return Value{kind: Number, n: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ArrayValue wraps a slice of Values; the slice is not copied.
func ArrayValue(items []Value) Value { return Value{kind: Array, arr: items} }

// ObjectValue wraps an *Obj.
func ObjectValue(o *Obj) Value {
	if o == nil {
		o = NewObj()
	}
	return Value{kind: Object, obj: o}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; zero value if v is not Bool.
func (v Value) Bool() bool { return v.b }

// Number returns the numeric payload; zero value if v is not Number.
func (v Value) Number() float64 { return v.n }

// Str returns the string payload; zero value if v is not String.
func (v Value) Str() string { return v.s }

// Items returns the array payload; nil if v is not Array.
func (v Value) Items() []Value { return v.arr }

// Obj returns the object payload; nil if v is not Object.
func (v Value) Obj() *Obj { return v.obj }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.kind == Null }

// Truthy implements the truthiness rule of spec §4.A: false, null, number 0,
// empty string, empty array, and empty object are falsy; everything else is
// truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.b
	case Number:
		return v.n != 0
	case String:
		return v.s != ""
	case Array:
		return len(v.arr) > 0
	case Object:
		return v.obj != nil && v.obj.Len() > 0
	default:
		return false
	}
}

// Equal implements structural equality without coercion: number != string
// even when numerically equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		return v.n == other.n
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		return v.obj.equal(other.obj)
	default:
		return false
	}
}

// Compare orders two Values that are both numeric or both strings, returning
// -1, 0, or 1. It returns a TypeMismatch error for any other combination.
func Compare(a, b Value) (int, error) {
	switch {
	case a.kind == Number && b.kind == Number:
		switch {
		case a.n < b.n:
			return -1, nil
		case a.n > b.n:
			return 1, nil
		default:
			return 0, nil
		}
	case a.kind == String && b.kind == String:
		return strings.Compare(a.s, b.s), nil
	default:
		return 0, jdmerr.TypeMismatch(
			fmt.Sprintf("cannot order %s against %s", a.kind, b.kind),
			"left_kind", a.kind.String(), "right_kind", b.kind.String(),
		)
	}
}

// String renders v for display/trace purposes (not JSON — see json.go for
// the wire encoding).
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Number:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case String:
		return strconv.Quote(v.s)
	case Array:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Object:
		keys := v.obj.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			val, _ := v.obj.Get(k)
			parts[i] = strconv.Quote(k) + ": " + val.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}
