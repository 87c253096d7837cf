// Copyright 2024 The Densemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package densemap

// Map is an unordered map from keys of type K to values of type V, backed
// by a dense, insertion-ordered value array and an open-addressed,
// robin-hood-probed metadata index. A Map is NOT goroutine-safe: it assumes
// a single writer, with concurrent readers safe only while no writer is
// active.
type Map[K, V any] struct {
	t *table[K, V]
}

// New constructs a Map using hash and equal to hash and compare keys. hash
// and equal are expected to be total functions consistent with each other:
// equal(a, b) must imply hash(a) == hash(b).
func New[K, V any](hash Hasher[K], equal Equaler[K], opts ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{t: newTable[K, V](hash, equal)}
	for _, opt := range opts {
		opt.apply(m.t)
	}
	return m
}

// SetLogger installs a structured tracer that records grow/rehash/reserve
// events. A nil logger disables tracing (the default).
func (m *Map[K, V]) SetLogger(l *Logger) { m.t.logger = l }

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int { return m.t.len() }

// Clear removes every entry and resets the map to its minimum bucket count.
func (m *Map[K, V]) Clear() { m.t.clear() }

// MaxLoadFactor returns the map's current max load factor.
func (m *Map[K, V]) MaxLoadFactor() float64 { return m.t.maxLoadFactor }

// SetMaxLoadFactor recomputes the capacity threshold from the current
// bucket count. It does not itself reshape the table; if the new threshold
// is already below the current size, the next insert triggers a grow.
func (m *Map[K, V]) SetMaxLoadFactor(f float64) { m.t.setMaxLoadFactor(f) }

// Reserve ensures the map can hold at least n entries without a further
// resize. It never shrinks the table.
func (m *Map[K, V]) Reserve(n int) {
	if n > 0 {
		m.t.reserve(uint64(n))
	}
}

// Rehash resizes the metadata array to the smallest size that fits both n
// and the map's current entry count, growing or shrinking as needed, and
// compacts the dense value array's backing allocation. Rehash(0) shrinks
// the map to the smallest table that still fits its current entries.
func (m *Map[K, V]) Rehash(n int) {
	c := uint64(0)
	if n > 0 {
		c = uint64(n)
	}
	m.t.rehashTo(c)
}

// Insert inserts key/value, overwriting nothing if key is already present.
// It returns an iterator to the entry (new or pre-existing) and whether the
// insertion actually happened.
func (m *Map[K, V]) Insert(key K, value V) (Iterator[K, V], bool, error) {
	idx, existingIdx, inserted, err := m.t.insert(key, value)
	if err != nil {
		return Iterator[K, V]{}, false, err
	}
	if !inserted {
		idx = existingIdx
	}
	return Iterator[K, V]{t: m.t, idx: idx}, inserted, nil
}

// TryEmplace inserts a value built lazily by build, but only if key is not
// already present: build is never called when key already exists.
func (m *Map[K, V]) TryEmplace(key K, build func() V) (Iterator[K, V], bool, error) {
	idx, inserted, err := m.t.tryEmplace(key, build)
	if err != nil {
		return Iterator[K, V]{}, false, err
	}
	return Iterator[K, V]{t: m.t, idx: idx}, inserted, nil
}

// InsertOrAssign inserts key/value, or overwrites the existing mapped value
// if key is already present.
func (m *Map[K, V]) InsertOrAssign(key K, value V) (Iterator[K, V], bool, error) {
	idx, inserted, err := m.t.insertOrAssign(key, value)
	if err != nil {
		return Iterator[K, V]{}, false, err
	}
	return Iterator[K, V]{t: m.t, idx: idx}, inserted, nil
}

// Find returns an iterator to key's entry and true, or the end iterator and
// false if key is absent.
func (m *Map[K, V]) Find(key K) (Iterator[K, V], bool) {
	_, idx, found := m.t.locate(key)
	if !found {
		return endIterator(m.t), false
	}
	return Iterator[K, V]{t: m.t, idx: idx}, true
}

// Get is a convenience wrapper around Find returning the value directly.
func (m *Map[K, V]) Get(key K) (V, bool) {
	it, found := m.Find(key)
	if !found {
		var zero V
		return zero, false
	}
	return it.Value(), true
}

// At returns the value mapped to key, or ErrKeyNotFound if key is absent.
func (m *Map[K, V]) At(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// Ref returns a pointer to the mapped value for key, inserting a
// zero-valued entry first if key is absent — the equivalent of
// operator[] delegating to try_emplace. The pointer is valid only until the
// next mutating call, exactly like an Iterator.
func (m *Map[K, V]) Ref(key K) (*V, error) {
	idx, _, err := m.t.tryEmplace(key, func() V { var zero V; return zero })
	if err != nil {
		return nil, err
	}
	return &m.t.dense.At(idx).Value, nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, _, found := m.t.locate(key)
	return found
}

// Count returns 1 if key is present and 0 otherwise; this is a unique-key
// container so no other value is possible.
func (m *Map[K, V]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

// EqualRange returns (it, it+1) if key is present, or (end, end) otherwise.
func (m *Map[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	it, found := m.Find(key)
	if !found {
		end := endIterator(m.t)
		return end, end
	}
	return it, Iterator[K, V]{t: m.t, idx: it.idx + 1}
}

// Erase removes key if present, returning its value and true, or the zero
// value and false if it was absent.
func (m *Map[K, V]) Erase(key K) (V, bool) {
	removed, ok := m.t.eraseByKey(key)
	return removed.Value, ok
}

// EraseAt removes the entry it refers to. It returns false if it is not a
// valid iterator into m.
func (m *Map[K, V]) EraseAt(it Iterator[K, V]) bool {
	if it.t != m.t {
		return false
	}
	_, ok := m.t.eraseAtIndex(it.index())
	return ok
}

// EraseRange removes every entry currently positioned in [first,last) of
// the dense array and returns how many entries were removed.
func (m *Map[K, V]) EraseRange(first, last Iterator[K, V]) int {
	return m.t.eraseRange(first.index(), last.index())
}

// All calls yield for each (key, value) pair in insertion order (modulo any
// swap-with-last dislodgment from prior erases), stopping early if yield
// returns false.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	n := m.t.len()
	for i := 0; i < n; i++ {
		e := m.t.dense.At(uint32(i))
		if !yield(e.Key, e.Value) {
			return
		}
	}
}

// Iter returns a cursor-style iterator over the map, positioned before the
// first entry.
func (m *Map[K, V]) Iter() *MapCursor[K, V] {
	return &MapCursor[K, V]{t: m.t, idx: -1}
}

// MapCursor is a classic Next()/Key()/Value() iterator, offered alongside
// All for callers that prefer an explicit loop.
type MapCursor[K, V any] struct {
	t   *table[K, V]
	idx int
}

// Next advances the cursor and reports whether a further entry exists.
func (c *MapCursor[K, V]) Next() bool {
	c.idx++
	return c.idx < c.t.len()
}

// Key returns the current entry's key.
func (c *MapCursor[K, V]) Key() K { return c.t.dense.At(uint32(c.idx)).Key }

// Value returns the current entry's value.
func (c *MapCursor[K, V]) Value() V { return c.t.dense.At(uint32(c.idx)).Value }

// EqualFunc reports whether m and other contain the same set of keys with
// equal (per valueEqual) mapped values, independent of insertion order.
func (m *Map[K, V]) EqualFunc(other *Map[K, V], valueEqual func(a, b V) bool) bool {
	if m.Len() != other.Len() {
		return false
	}
	equal := true
	m.All(func(k K, v V) bool {
		ov, ok := other.Get(k)
		if !ok || !valueEqual(v, ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// Swap exchanges the underlying storage of m and other in O(1).
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.t, other.t = other.t, m.t
}

// Drain returns every (key, value) pair, in dense order, copied into a new
// slice, and then resets m to empty.
func (m *Map[K, V]) Drain() []MapEntry[K, V] {
	n := m.t.len()
	out := make([]MapEntry[K, V], n)
	for i := 0; i < n; i++ {
		e := m.t.dense.At(uint32(i))
		out[i] = MapEntry[K, V]{Key: e.Key, Value: e.Value}
	}
	m.t.clear()
	return out
}

// MapEntry is a plain (Key, Value) pair, used by Drain.
type MapEntry[K, V any] struct {
	Key   K
	Value V
}
