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

// This file implements the heterogeneous ("transparent") lookup extension
// point: looking a container up by a query type Q distinct from its key
// type K, e.g. finding a Map[string, V] entry by a []byte or a struct field
// without allocating a K. A method cannot introduce a new type parameter in
// Go, so the lookup methods on Map/Set cannot grow a Q themselves; these
// free functions are the idiomatic substitute, taking the container plus a
// query hasher and a cross-type equality function explicit at the call
// site. queryHash must agree with the container's own Hasher: the query's
// hash goes through the same mixing step as a key's, so for any k of type K
// and q of type Q with equal(q, k) true, mixedHash(queryHash, q) must equal
// the container's mixedHash(k) — in practice queryHash.Hash(q) equals the
// container Hasher's Hash(k), and both or neither carry the avalanching
// capability tag.

// FindAs looks up query against m using queryHash to compute its mixed hash
// and equal to compare it against candidate keys, without requiring query to
// be converted to K first.
func FindAs[K, V, Q any](m *Map[K, V], query Q, queryHash Hasher[Q], equal func(q Q, k K) bool) (Iterator[K, V], bool) {
	idx, found := locateHeterogeneous(m.t, query, queryHash, equal)
	if !found {
		return endIterator(m.t), false
	}
	return Iterator[K, V]{t: m.t, idx: idx}, true
}

// ContainsAs reports whether query matches some key of m.
func ContainsAs[K, V, Q any](m *Map[K, V], query Q, queryHash Hasher[Q], equal func(q Q, k K) bool) bool {
	_, found := locateHeterogeneous(m.t, query, queryHash, equal)
	return found
}

// EraseAs removes the entry of m matching query, if any, returning its
// value.
func EraseAs[K, V, Q any](m *Map[K, V], query Q, queryHash Hasher[Q], equal func(q Q, k K) bool) (V, bool) {
	idx, found := locateHeterogeneous(m.t, query, queryHash, equal)
	if !found {
		var zero V
		return zero, false
	}
	removed, ok := m.t.eraseAtIndex(idx)
	return removed.Value, ok
}

// ContainsSetAs reports whether query matches some element of s.
func ContainsSetAs[K, Q any](s *Set[K], query Q, queryHash Hasher[Q], equal func(q Q, k K) bool) bool {
	_, found := locateHeterogeneous(s.t, query, queryHash, equal)
	return found
}

// EraseSetAs removes the element of s matching query, if any.
func EraseSetAs[K, Q any](s *Set[K], query Q, queryHash Hasher[Q], equal func(q Q, k K) bool) bool {
	idx, found := locateHeterogeneous(s.t, query, queryHash, equal)
	if !found {
		return false
	}
	_, ok := s.t.eraseAtIndex(idx)
	return ok
}

// locateHeterogeneous mirrors table.locate but hashes and compares query
// (of type Q) against the table's dense keys (of type K) rather than
// hashing another K.
func locateHeterogeneous[K, V, Q any](t *table[K, V], query Q, queryHash Hasher[Q], equal func(q Q, k K) bool) (valueIdx uint32, found bool) {
	h := mixedHash(queryHash, query)
	_, _, _, idx, found := t.probe(h, func(i uint32) bool {
		return equal(query, t.dense.At(i).Key)
	})
	return idx, found
}
