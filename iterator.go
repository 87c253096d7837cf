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

// Iterator references a position in a table's dense value array. It is a
// value index wrapped with a pointer back to its table, so copying one costs
// no more than copying a pointer and an int. Like any iterator into this container, it is stable
// only until the next mutating call: insert, erase, grow, reserve, and
// rehash may all relocate the entry it points at or invalidate it outright.
type Iterator[K, V any] struct {
	t   *table[K, V]
	idx uint32
}

// Valid reports whether it still refers to a live position. The end
// sentinel returned by a miss is never Valid.
func (it Iterator[K, V]) Valid() bool {
	return it.t != nil && it.idx < uint32(it.t.dense.Len())
}

// Key returns the key at it's position. It panics if !it.Valid().
func (it Iterator[K, V]) Key() K {
	if !it.Valid() {
		panic("densemap: Key on invalid iterator")
	}
	return it.t.dense.At(it.idx).Key
}

// Value returns the value at it's position. It panics if !it.Valid().
func (it Iterator[K, V]) Value() V {
	if !it.Valid() {
		panic("densemap: Value on invalid iterator")
	}
	return it.t.dense.At(it.idx).Value
}

// index exposes the underlying dense-array position, used by Map to drive
// EraseAt/EraseRange without re-deriving it.
func (it Iterator[K, V]) index() uint32 { return it.idx }

func endIterator[K, V any](t *table[K, V]) Iterator[K, V] {
	return Iterator[K, V]{t: t, idx: uint32(t.dense.Len())}
}
