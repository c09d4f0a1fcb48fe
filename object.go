package jsonvalue

import "iter"

// indexThreshold is the member count above which an Object keeps a hash
// index; smaller objects are searched linearly.
const indexThreshold = 8

// Object maps unique string keys to values. Iteration follows first-insertion
// order; replacing a member keeps its position.
type Object struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewObject returns an empty object.
func NewObject() *Object { return &Object{} }

func newObjectCap(n int) *Object {
	return &Object{keys: make([]string, 0, n), vals: make([]Value, 0, n)}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) find(key string) int {
	if o.index != nil {
		if i, ok := o.index[key]; ok {
			return i
		}
		return -1
	}
	for i, k := range o.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Get returns the member for key.
func (o *Object) Get(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}
	if i := o.find(key); i >= 0 {
		return &o.vals[i], true
	}
	return nil, false
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool { return o != nil && o.find(key) >= 0 }

// Set stores v under key and reports whether an existing member was replaced.
func (o *Object) Set(key string, v Value) (replaced bool) {
	if i := o.find(key); i >= 0 {
		o.vals[i] = v
		return true
	}
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
	switch {
	case o.index != nil:
		o.index[key] = len(o.keys) - 1
	case len(o.keys) > indexThreshold:
		o.reindex(0)
	}
	return false
}

func (o *Object) reindex(from int) {
	if o.index == nil {
		o.index = make(map[string]int, len(o.keys))
	}
	for i := from; i < len(o.keys); i++ {
		o.index[o.keys[i]] = i
	}
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	i := o.find(key)
	if i < 0 {
		return false
	}
	o.keys = append(o.keys[:i], o.keys[i+1:]...)
	o.vals = append(o.vals[:i], o.vals[i+1:]...)
	if o.index != nil {
		delete(o.index, key)
		o.reindex(i)
	}
	return true
}

// Keys returns the keys in iteration order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Range calls fn for each member until fn returns false.
func (o *Object) Range(fn func(key string, v *Value) bool) {
	if o == nil {
		return
	}
	for i := range o.keys {
		if !fn(o.keys[i], &o.vals[i]) {
			return
		}
	}
}

// All iterates members in order.
func (o *Object) All() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) { o.Range(yield) }
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return NewObject()
	}
	c := newObjectCap(len(o.keys))
	for i := range o.keys {
		c.Set(o.keys[i], o.vals[i].Clone())
	}
	return c
}
