package mutable

/*
Map is a hash map keyed by Values, hashed with Hash() and compared
with Equals(). Keys are held by reference: a key must not be mutated
while it is in the map, so callers store a Duplicate() of a reused
value. Iteration follows insertion order, except that a Put after a
Remove takes the slot the removed entry held.
*/
type Map[V any] struct {
	buckets map[uint32][]int
	entries []mapEntry[V]
	free    []int
	size    int
}

type mapEntry[V any] struct {
	key   Value
	value V
}

func NewMap[V any](capacity int) *Map[V] {
	return &Map[V]{
		buckets: make(map[uint32][]int, capacity),
		entries: make([]mapEntry[V], 0, capacity),
	}
}

func (m *Map[V]) find(key Value) (hash uint32, pos int) {
	hash = key.Hash()
	for i, idx := range m.buckets[hash] {
		if Equals(m.entries[idx].key, key) {
			return hash, i
		}
	}
	return hash, -1
}

/* Returns the value mapped to key, and whether there was one. */
func (m *Map[V]) Get(key Value) (v V, ok bool) {
	hash, pos := m.find(key)
	if pos < 0 {
		return v, false
	}
	return m.entries[m.buckets[hash][pos]].value, true
}

/* Maps key to value, replacing both the previous key and value of an equal key. */
func (m *Map[V]) Put(key Value, value V) {
	hash, pos := m.find(key)
	if pos >= 0 {
		m.entries[m.buckets[hash][pos]] = mapEntry[V]{key, value}
		return
	}
	idx := len(m.entries)
	if n := len(m.free); n > 0 {
		idx, m.free = m.free[n-1], m.free[:n-1]
		m.entries[idx] = mapEntry[V]{key, value}
	} else {
		m.entries = append(m.entries, mapEntry[V]{key, value})
	}
	m.buckets[hash] = append(m.buckets[hash], idx)
	m.size++
}

/* Removes key, returning whether it was present. */
func (m *Map[V]) Remove(key Value) bool {
	hash, pos := m.find(key)
	if pos < 0 {
		return false
	}
	bucket := m.buckets[hash]
	idx := bucket[pos]
	if len(bucket) == 1 {
		delete(m.buckets, hash)
	} else {
		m.buckets[hash] = append(bucket[:pos], bucket[pos+1:]...)
	}
	m.entries[idx] = mapEntry[V]{}
	m.free = append(m.free, idx)
	m.size--
	return true
}

func (m *Map[V]) Len() int { return m.size }

/* Calls f for every entry until it returns false. */
func (m *Map[V]) Each(f func(key Value, value V) bool) {
	for _, e := range m.entries {
		if e.key != nil && !f(e.key, e.value) {
			return
		}
	}
}
