package value

import (
	"strings"

	"github.com/bizrules/jdm/internal/jdmerr"
)

// Get descends root through a dotted key path ("a.b.c"). A missing key
// yields null, not an error; descending through a non-object also yields
// null — reads are always total.
func Get(root Value, path string) Value {
	if path == "" {
		return root
	}
	current := root
	for _, seg := range strings.Split(path, ".") {
		if current.kind != Object {
			return NullValue()
		}
		v, ok := current.obj.Get(seg)
		if !ok {
			return NullValue()
		}
		current = v
	}
	return current
}

// Set returns a new Value equal to root with v written at the dotted path,
// creating intermediate objects as needed. It never mutates root. Setting
// through a non-object intermediate segment is a TypeMismatch.
func Set(root Value, path string, v Value) (Value, error) {
	if path == "" {
		return v, nil
	}
	segs := strings.Split(path, ".")
	return setSegs(root, segs, v)
}

func setSegs(current Value, segs []string, v Value) (Value, error) {
	head, rest := segs[0], segs[1:]

	var base *Obj
	switch current.kind {
	case Null:
		base = NewObj()
	case Object:
		base = current.obj.Clone()
	default:
		return Value{}, jdmerr.TypeMismatch(
			"cannot write through non-object segment",
			"segment", head, "actual_kind", current.kind.String(),
		)
	}

	if len(rest) == 0 {
		base.Set(head, v)
		return ObjectValue(base), nil
	}

	child, _ := base.Get(head)
	newChild, err := setSegs(child, rest, v)
	if err != nil {
		return Value{}, err
	}
	base.Set(head, newChild)
	return ObjectValue(base), nil
}
