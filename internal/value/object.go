package value

// Obj is an insertion-order-preserving string-keyed map, the backing store
// for the Object variant. A nil *Obj behaves like an empty object for reads.
// Set mutates the Obj in place; callers that want a persistent update use
// With, which returns a shallow copy (see path.go for the deep, dotted-path
// version).
type Obj struct {
	keys []string
	vals map[string]Value
}

// NewObj returns an empty, ready-to-use Obj.
func NewObj() *Obj {
	return &Obj{vals: make(map[string]Value)}
}

// Len reports the number of keys.
func (o *Obj) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. Do not mutate the result.
func (o *Obj) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Get returns the value at key and whether it was present.
func (o *Obj) Get(key string) (Value, bool) {
	if o == nil {
		return NullValue(), false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Set mutates o in place, appending key to the order if new. Used only
// while building an Obj that nothing else yet references (e.g. JSON
// decoding, a fresh output object); evaluated contexts are updated via
// With/path.Set instead, which never mutate a shared Obj.
func (o *Obj) Set(key string, v Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// With returns a shallow copy of o with key set to v, leaving o untouched.
func (o *Obj) With(key string, v Value) *Obj {
	clone := o.Clone()
	clone.Set(key, v)
	return clone
}

// Clone returns a shallow copy: nested objects/arrays are shared, but the
// key/value table itself is independent, so Set on the clone never affects
// the original.
func (o *Obj) Clone() *Obj {
	clone := NewObj()
	if o == nil {
		return clone
	}
	clone.keys = append(clone.keys, o.keys...)
	for k, v := range o.vals {
		clone.vals[k] = v
	}
	return clone
}

func (o *Obj) equal(other *Obj) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
