package value

// DeepClone returns a Value with no shared mutable state (arrays, objects)
// with v. Scalars are copied by value already; this only matters for Array
// and Object. Used at evaluation entry (so the caller's context can never be
// observably mutated) and when snapshotting trace input/output.
func DeepClone(v Value) Value {
	switch v.kind {
	case Array:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = DeepClone(item)
		}
		return ArrayValue(items)
	case Object:
		clone := NewObj()
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			clone.Set(k, DeepClone(val))
		}
		return ObjectValue(clone)
	default:
		return v
	}
}
