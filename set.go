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

// Set is an unordered collection of unique keys of type K, built on the same
// dense/robin-hood engine as Map with V instantiated to struct{} so no space
// is wasted on a mapped value. A Set is NOT goroutine-safe.
type Set[K any] struct {
	t *table[K, struct{}]
}

// NewSet constructs a Set using hash and equal to hash and compare elements.
func NewSet[K any](hash Hasher[K], equal Equaler[K], opts ...Option[K, struct{}]) *Set[K] {
	s := &Set[K]{t: newTable[K, struct{}](hash, equal)}
	for _, opt := range opts {
		opt.apply(s.t)
	}
	return s
}

// SetLogger installs a structured tracer; see Map.SetLogger.
func (s *Set[K]) SetLogger(l *Logger) { s.t.logger = l }

// Len returns the number of elements in the set.
func (s *Set[K]) Len() int { return s.t.len() }

// Clear removes every element and resets the set to its minimum bucket
// count.
func (s *Set[K]) Clear() { s.t.clear() }

// Reserve ensures the set can hold at least n elements without a further
// resize.
func (s *Set[K]) Reserve(n int) {
	if n > 0 {
		s.t.reserve(uint64(n))
	}
}

// Rehash resizes the set's metadata array to the smallest size that fits
// both n and its current element count. Rehash(0) shrinks to fit.
func (s *Set[K]) Rehash(n int) {
	c := uint64(0)
	if n > 0 {
		c = uint64(n)
	}
	s.t.rehashTo(c)
}

// SetMaxLoadFactor overrides the set's max load factor.
func (s *Set[K]) SetMaxLoadFactor(f float64) { s.t.setMaxLoadFactor(f) }

// Insert adds key, returning whether it was newly added.
func (s *Set[K]) Insert(key K) (bool, error) {
	_, _, inserted, err := s.t.insert(key, struct{}{})
	return inserted, err
}

// Contains reports whether key is a member of the set.
func (s *Set[K]) Contains(key K) bool {
	_, _, found := s.t.locate(key)
	return found
}

// Erase removes key, reporting whether it was present.
func (s *Set[K]) Erase(key K) bool {
	_, ok := s.t.eraseByKey(key)
	return ok
}

// All calls yield for each element in insertion order (modulo any
// swap-with-last dislodgment from prior erases), stopping early if yield
// returns false.
func (s *Set[K]) All(yield func(key K) bool) {
	n := s.t.len()
	for i := 0; i < n; i++ {
		if !yield(s.t.dense.At(uint32(i)).Key) {
			return
		}
	}
}

// Slice returns every element of s, in dense order, as a new slice.
func (s *Set[K]) Slice() []K {
	out := make([]K, 0, s.Len())
	s.All(func(k K) bool {
		out = append(out, k)
		return true
	})
	return out
}

// Equal reports whether s and other contain exactly the same elements,
// independent of insertion order.
func (s *Set[K]) Equal(other *Set[K]) bool {
	if s.Len() != other.Len() {
		return false
	}
	equal := true
	s.All(func(k K) bool {
		if !other.Contains(k) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// Swap exchanges the underlying storage of s and other in O(1).
func (s *Set[K]) Swap(other *Set[K]) {
	s.t, other.t = other.t, s.t
}

// Drain returns every element, in dense order, and resets s to empty.
func (s *Set[K]) Drain() []K {
	out := s.Slice()
	s.t.clear()
	return out
}
