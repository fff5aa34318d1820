package external

// OrderedMap is a string-keyed map of byte buffers that remembers insertion
// order. Engines use it for array-valued variables so that element order
// survives a round trip through a package.
type OrderedMap struct {
	keys   []string
	values map[string]Bytes
}

// NewOrderedMap returns an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Bytes)}
}

// Set stores value under key. Re-setting an existing key keeps its position.
func (m *OrderedMap) Set(key string, value Bytes) {
	if m.values == nil {
		m.values = make(map[string]Bytes)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key string) (Bytes, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key if present.
func (m *OrderedMap) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *OrderedMap) Range(fn func(key string, value Bytes) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (m *OrderedMap) Clone() *OrderedMap {
	out := NewOrderedMap()
	m.Range(func(k string, v Bytes) bool {
		out.Set(k, append(Bytes(nil), v...))
		return true
	})
	return out
}
