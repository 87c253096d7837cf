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

import "github.com/duckdoom5/unordered-dense/internal/segvec"

// entry is the logical (Key, Value) pair stored by the dense value array.
// For a Set, V is instantiated as struct{}.
type entry[K, V any] struct {
	Key   K
	Value V
}

// denseStore is the growable value array the engine is layered on top of.
// spec.md treats this as an out-of-scope external collaborator assumed to
// provide back-insertion, last-element removal, contiguous-enough storage,
// size, and move semantics; two implementations are provided here, selected
// by Option at construction time.
type denseStore[K, V any] interface {
	Len() int
	At(i uint32) *entry[K, V]
	Push(e entry[K, V])
	PopBack()
	// Compact shrinks any backing allocation to exactly fit Len entries.
	// Only called by Rehash; Reserve never shrinks.
	Compact()
}

// sliceStore is the default denseStore: one contiguous Go slice.
type sliceStore[K, V any] struct {
	v []entry[K, V]
}

func newSliceStore[K, V any]() *sliceStore[K, V] { return &sliceStore[K, V]{} }

func (s *sliceStore[K, V]) Len() int { return len(s.v) }

func (s *sliceStore[K, V]) At(i uint32) *entry[K, V] { return &s.v[i] }

func (s *sliceStore[K, V]) Push(e entry[K, V]) { s.v = append(s.v, e) }

func (s *sliceStore[K, V]) PopBack() { s.v = s.v[:len(s.v)-1] }

func (s *sliceStore[K, V]) Compact() {
	if len(s.v) == cap(s.v) {
		return
	}
	compacted := make([]entry[K, V], len(s.v))
	copy(compacted, s.v)
	s.v = compacted
}

// segmentedStore backs the dense value array with a segvec.Vector, see
// WithSegmentedStorage.
type segmentedStore[K, V any] struct {
	v *segvec.Vector[entry[K, V]]
}

func newSegmentedStore[K, V any](segmentSize int) *segmentedStore[K, V] {
	return &segmentedStore[K, V]{v: segvec.New[entry[K, V]](segmentSize)}
}

func (s *segmentedStore[K, V]) Len() int { return s.v.Len() }

func (s *segmentedStore[K, V]) At(i uint32) *entry[K, V] { return s.v.At(int(i)) }

func (s *segmentedStore[K, V]) Push(e entry[K, V]) { s.v.Push(e) }

func (s *segmentedStore[K, V]) PopBack() { s.v.PopBack() }

// Compact is a no-op for segmentedStore: avoiding large reallocation copies
// is the entire point of the layout, so Rehash does not fight that here.
func (s *segmentedStore[K, V]) Compact() {}
