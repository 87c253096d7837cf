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

import (
	"cmp"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// String summarizes m's size and load for human-readable logging; it does
// not dump contents, since K/V need not be printable in any stable order.
func (m *Map[K, V]) String() string {
	return fmt.Sprintf("densemap.Map[len=%d cap=%d buckets=%d]", m.Len(), m.t.capacity, m.t.bucketCount())
}

// DebugDumpOrdered returns every key of an Ordered-keyed map sorted
// ascending, paired with its value — useful in tests and diagnostics where
// a stable, readable dump matters more than avoiding the sort's O(n log n)
// cost. It is a free function, not a method, because it requires K to
// satisfy cmp.Ordered while Map itself only requires K to be comparable via
// the caller's Equaler.
func DebugDumpOrdered[K cmp.Ordered, V any](m *Map[K, V]) string {
	keys := make([]K, 0, m.Len())
	m.All(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	slices.Sort(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := m.Get(k)
		fmt.Fprintf(&b, "%v:%v", k, v)
	}
	b.WriteByte('}')
	return b.String()
}

// String summarizes s's size for human-readable logging.
func (s *Set[K]) String() string {
	return fmt.Sprintf("densemap.Set[len=%d cap=%d buckets=%d]", s.Len(), s.t.capacity, s.t.bucketCount())
}

// DebugDumpOrderedSet returns s's elements sorted ascending as a string, for
// the same reason DebugDumpOrdered exists for Map.
func DebugDumpOrderedSet[K cmp.Ordered](s *Set[K]) string {
	keys := s.Slice()
	slices.Sort(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", k)
	}
	b.WriteByte('}')
	return b.String()
}
