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

// Package densemap implements an associative container with a dense value
// layout: all live entries live contiguously, in insertion order, in one
// array, while a separate open-addressed metadata array maps hashes to
// positions in that array. It is a reimplementation, using Go generics and
// a user-supplied hash/equality pair instead of Go's built-in comparable
// constraint, of the classic robin-hood-probed open-addressing design: a
// metadata slot packs a displacement+fingerprint word together with the
// index of the value it refers to, and deletion uses backward-shift rather
// than tombstones so no compaction pass is ever required.
//
// Map and Set are the two public specializations of the same engine,
// defined in map.go and set.go. This file holds the engine itself: the
// metadata slot encoding, the probing and placement loop, resize/rehash
// policy, and the backward-shift erase path.
//
// A table is NOT goroutine-safe; it assumes a single writer and allows
// concurrent readers only while no writer is active.
package densemap

import "fmt"

// invariants gates the expensive per-operation consistency check in
// checkInvariants. It is false in production use and flipped on by tests.
var invariants = false

const (
	// fingerprintBits is the width of the fingerprint field packed into
	// the low bits of disp_fp.
	fingerprintBits = 8
	fingerprintMask = 1<<fingerprintBits - 1

	// dispStep is added to or subtracted from a slot's disp_fp field to
	// bump its encoded displacement by one.
	dispStep = uint32(1) << fingerprintBits

	// initialShift yields an 8-slot metadata array (2^(64-61) == 8), the
	// smallest table the engine ever allocates.
	initialShift = 61
)

var defaultMaxLoadFactor = 0.8

// table is the shared engine behind Map and Set. V is struct{} for a Set.
type table[K, V any] struct {
	meta          []uint64
	dense         denseStore[K, V]
	hash          Hasher[K]
	equal         Equaler[K]
	shift         uint
	capacity      uint64
	maxLoadFactor float64
	logger        *Logger
}

func newTable[K, V any](hash Hasher[K], equal Equaler[K]) *table[K, V] {
	t := &table[K, V]{
		hash:          hash,
		equal:         equal,
		shift:         initialShift,
		maxLoadFactor: defaultMaxLoadFactor,
		dense:         newSliceStore[K, V](),
	}
	t.meta = make([]uint64, t.bucketCount())
	t.capacity = computeCapacity(t.bucketCount(), t.maxLoadFactor)
	return t
}

func computeCapacity(bucketCount uint64, maxLoadFactor float64) uint64 {
	return uint64(float64(bucketCount) * maxLoadFactor)
}

func (t *table[K, V]) bucketCount() uint64 { return uint64(1) << (64 - t.shift) }

func (t *table[K, V]) bucketMask() uint64 { return t.bucketCount() - 1 }

func (t *table[K, V]) len() int { return t.dense.Len() }

func (t *table[K, V]) isFull() bool { return uint64(t.dense.Len()) >= t.capacity }

func (t *table[K, V]) hashOf(key K) uint64 { return mixedHash(t.hash, key) }

func (t *table[K, V]) setMaxLoadFactor(f float64) {
	t.maxLoadFactor = f
	t.capacity = computeCapacity(t.bucketCount(), f)
}

func (t *table[K, V]) enableSegmentedStorage(segmentSize int) {
	t.dense = newSegmentedStore[K, V](segmentSize)
}

func (t *table[K, V]) clear() {
	t.shift = initialShift
	t.meta = make([]uint64, t.bucketCount())
	t.capacity = computeCapacity(t.bucketCount(), t.maxLoadFactor)
	if s, ok := t.dense.(*segmentedStore[K, V]); ok {
		s.v.Reset()
	} else {
		t.dense = newSliceStore[K, V]()
	}
}

// probe walks the displacement-ordered probe sequence for the mixed hash h,
// starting at displacement 1 in h's home bucket. match is invoked for every
// slot whose disp_fp exactly equals the sought value (same displacement and
// fingerprint); it reports whether that slot's value is the one being
// searched for. probe returns as soon as match reports true (a hit, with
// hitIdx set to the slot's value_idx), or as soon as robin-hood
// monotonicity proves absence (sought's disp_fp exceeds the slot
// occupying the position the sought key would have claimed) — in which
// case bucket/d/fp describe exactly where a new entry belongs.
func (t *table[K, V]) probe(h uint64, match func(valueIdx uint32) bool) (bucket uint64, d uint32, fp uint32, hitIdx uint32, found bool) {
	mask := t.bucketMask()
	bucket = h >> t.shift
	fp = uint32(h & fingerprintMask)
	d = 1
	for {
		cur := t.meta[bucket]
		curDispFp := uint32(cur >> 32)
		sought := (d << fingerprintBits) | fp
		if sought > curDispFp {
			return bucket, d, fp, 0, false
		}
		if sought == curDispFp {
			idx := uint32(cur)
			if match(idx) {
				return bucket, d, fp, idx, true
			}
		}
		d++
		bucket = (bucket + 1) & mask
	}
}

// locateByHash is probe specialized to an equality-based search for key,
// returning the metadata slot index on a hit.
func (t *table[K, V]) locateByHash(h uint64, key K) (slotIdx uint64, valueIdx uint32, found bool) {
	bucket, _, _, idx, found := t.probe(h, func(i uint32) bool {
		return t.equal.Equal(key, t.dense.At(i).Key)
	})
	return bucket, idx, found
}

func (t *table[K, V]) locate(key K) (slotIdx uint64, valueIdx uint32, found bool) {
	return t.locateByHash(t.hashOf(key), key)
}

// placeAt writes (dispFp, valueIdx) into bucket, cascading: whatever
// occupied bucket before (if anything) is re-written one slot forward with
// its displacement bumped by one, and so on until an empty slot absorbs
// the tail of the chain.
func (t *table[K, V]) placeAt(bucket uint64, dispFp uint32, valueIdx uint32) {
	mask := t.bucketMask()
	for {
		cur := t.meta[bucket]
		t.meta[bucket] = (uint64(dispFp) << 32) | uint64(valueIdx)
		if cur == 0 {
			return
		}
		dispFp = uint32(cur>>32) + dispStep
		valueIdx = uint32(cur)
		bucket = (bucket + 1) & mask
	}
}

// ensureInsertable grows the table if it is at its load-factor threshold
// and rejects the insert outright if the table is already at the engine's
// hard entry-count ceiling. It is called, and must succeed, before any
// insert path mutates the dense store.
func (t *table[K, V]) ensureInsertable() error {
	if uint64(t.dense.Len()) >= maxEntries {
		return ErrCapacityExceeded
	}
	if t.isFull() {
		t.grow()
	}
	return nil
}

// insert implements the construct-then-probe path (spec: Insert/Emplace):
// the entry is appended to the dense store speculatively; if the key turns
// out to already be present, the speculative entry is popped back off and
// the existing value_idx is returned with inserted=false.
func (t *table[K, V]) insert(key K, value V) (idx uint32, existingIdx uint32, inserted bool, err error) {
	if err = t.ensureInsertable(); err != nil {
		return 0, 0, false, err
	}
	t.dense.Push(entry[K, V]{Key: key, Value: value})
	newIdx := uint32(t.dense.Len() - 1)
	h := t.hashOf(key)
	bucket, d, fp, existingIdx, found := t.probe(h, func(i uint32) bool {
		return t.equal.Equal(key, t.dense.At(i).Key)
	})
	if found {
		t.dense.PopBack()
		t.checkInvariants()
		return existingIdx, existingIdx, false, nil
	}
	t.placeAt(bucket, (d<<fingerprintBits)|fp, newIdx)
	t.checkInvariants()
	return newIdx, 0, true, nil
}

// tryEmplace implements the probe-then-construct path (spec: try_emplace):
// build is invoked, and the entry constructed, only when the key is
// genuinely absent.
func (t *table[K, V]) tryEmplace(key K, build func() V) (idx uint32, inserted bool, err error) {
	if err = t.ensureInsertable(); err != nil {
		return 0, false, err
	}
	h := t.hashOf(key)
	bucket, d, fp, existingIdx, found := t.probe(h, func(i uint32) bool {
		return t.equal.Equal(key, t.dense.At(i).Key)
	})
	if found {
		return existingIdx, false, nil
	}
	t.dense.Push(entry[K, V]{Key: key, Value: build()})
	newIdx := uint32(t.dense.Len() - 1)
	t.placeAt(bucket, (d<<fingerprintBits)|fp, newIdx)
	t.checkInvariants()
	return newIdx, true, nil
}

// insertOrAssign implements insert_or_assign: try_emplace, then overwrite
// the mapped value on a duplicate.
func (t *table[K, V]) insertOrAssign(key K, value V) (idx uint32, inserted bool, err error) {
	idx, inserted, err = t.tryEmplace(key, func() V { return value })
	if err != nil {
		return 0, false, err
	}
	if !inserted {
		t.dense.At(idx).Value = value
	}
	return idx, inserted, nil
}

// eraseMetaSlot removes the occupant of slotIdx via backward-shift deletion
// and returns the value_idx it referenced.
func (t *table[K, V]) eraseMetaSlot(slotIdx uint64) uint32 {
	mask := t.bucketMask()
	removed := uint32(t.meta[slotIdx])
	hole := slotIdx
	for {
		next := (hole + 1) & mask
		nw := t.meta[next]
		if nw == 0 {
			break
		}
		nextDisp := uint32(nw>>32) >> fingerprintBits
		if nextDisp < 2 {
			break
		}
		shifted := (uint64(uint32(nw>>32)-dispStep) << 32) | (nw & 0xFFFFFFFF)
		t.meta[hole] = shifted
		hole = next
	}
	t.meta[hole] = 0
	return removed
}

// fillHole closes the gap left at dense index r by swapping the last entry
// into it and repairing the metadata back-reference that pointed at the
// last position, then popping the now-duplicated tail entry.
func (t *table[K, V]) fillHole(r uint32) {
	lastIdx := uint32(t.dense.Len() - 1)
	if r != lastIdx {
		moved := *t.dense.At(lastIdx)
		*t.dense.At(r) = moved
		slotIdx, _, found := t.locate(moved.Key)
		if found {
			t.rewriteValueIdx(slotIdx, r)
		}
	}
	t.dense.PopBack()
}

func (t *table[K, V]) rewriteValueIdx(slotIdx uint64, newIdx uint32) {
	word := t.meta[slotIdx]
	t.meta[slotIdx] = (word &^ 0xFFFFFFFF) | uint64(newIdx)
}

// eraseByKey finds and removes key, returning the removed entry.
func (t *table[K, V]) eraseByKey(key K) (removed entry[K, V], ok bool) {
	slotIdx, valueIdx, found := t.locate(key)
	if !found {
		return entry[K, V]{}, false
	}
	removed = *t.dense.At(valueIdx)
	t.eraseMetaSlot(slotIdx)
	t.fillHole(valueIdx)
	t.checkInvariants()
	return removed, true
}

// eraseAtIndex removes the entry currently at dense index idx, e.g. via an
// Iterator. It locates the owning metadata slot by walking the probe chain
// for the entry's own key, exactly as erase-by-key does, since the key at
// idx uniquely identifies its slot.
func (t *table[K, V]) eraseAtIndex(idx uint32) (removed entry[K, V], ok bool) {
	if idx >= uint32(t.dense.Len()) {
		return entry[K, V]{}, false
	}
	key := t.dense.At(idx).Key
	slotIdx, valueIdx, found := t.locate(key)
	if !found || valueIdx != idx {
		return entry[K, V]{}, false
	}
	removed = *t.dense.At(idx)
	t.eraseMetaSlot(slotIdx)
	t.fillHole(idx)
	t.checkInvariants()
	return removed, true
}

// eraseRange removes every entry currently occupying dense indices
// [first,last). Rather than replay the source's tuned (and, per the design
// notes, under-specified) two-ended erase, it is specified directly against
// the observable postcondition: capture the keys in the range up front,
// then erase each by key so every swap-with-last relocation is handled
// correctly regardless of how many of the captured keys have already moved.
func (t *table[K, V]) eraseRange(first, last uint32) int {
	n := uint32(t.dense.Len())
	if last > n {
		last = n
	}
	if first >= last {
		return 0
	}
	keys := make([]K, 0, last-first)
	for i := first; i < last; i++ {
		keys = append(keys, t.dense.At(i).Key)
	}
	for _, k := range keys {
		t.eraseByKey(k)
	}
	return len(keys)
}

// grow doubles the bucket count (shift--), discards and reallocates the
// metadata array, and rebuilds it from the untouched dense store.
func (t *table[K, V]) grow() {
	t.shift--
	t.meta = make([]uint64, t.bucketCount())
	t.capacity = computeCapacity(t.bucketCount(), t.maxLoadFactor)
	t.rebuildMeta()
	t.trace("grow", "shift", t.shift, "buckets", t.bucketCount(), "capacity", t.capacity)
}

// rebuildMeta replays every dense entry through the placement engine. Used
// after any structural change to the metadata array's size (grow, reserve,
// rehash). V is untouched; no entry moves.
func (t *table[K, V]) rebuildMeta() {
	n := uint32(t.dense.Len())
	for i := uint32(0); i < n; i++ {
		h := t.hashOf(t.dense.At(i).Key)
		bucket, d, fp, _, _ := t.probe(h, func(uint32) bool { return false })
		t.placeAt(bucket, (d<<fingerprintBits)|fp, i)
	}
	t.checkInvariants()
}

// smallestShiftFor returns the largest shift s' <= initialShift (i.e. the
// smallest table) whose capacity under maxLoadFactor is still >= c.
func smallestShiftFor(c uint64, maxLoadFactor float64) uint {
	s := uint(initialShift)
	for s > 0 {
		if computeCapacity(uint64(1)<<(64-s), maxLoadFactor) >= c {
			break
		}
		s--
	}
	return s
}

// reserve grows (never shrinks) so that the table can hold at least c
// entries without a further resize.
func (t *table[K, V]) reserve(c uint64) {
	s2 := smallestShiftFor(c, t.maxLoadFactor)
	if s2 < t.shift {
		t.shift = s2
		t.meta = make([]uint64, t.bucketCount())
		t.capacity = computeCapacity(t.bucketCount(), t.maxLoadFactor)
		t.rebuildMeta()
		t.trace("reserve", "shift", t.shift, "buckets", t.bucketCount(), "capacity", t.capacity)
	}
}

// rehashTo resizes the metadata array to the smallest size that both fits c
// and the table's current entry count, in either direction, and compacts
// the dense store's backing allocation.
func (t *table[K, V]) rehashTo(c uint64) {
	need := c
	if n := uint64(t.dense.Len()); n > need {
		need = n
	}
	s2 := smallestShiftFor(need, t.maxLoadFactor)
	if s2 != t.shift {
		t.shift = s2
		t.meta = make([]uint64, t.bucketCount())
		t.capacity = computeCapacity(t.bucketCount(), t.maxLoadFactor)
		t.rebuildMeta()
		t.trace("rehash", "shift", t.shift, "buckets", t.bucketCount(), "capacity", t.capacity)
	}
	t.dense.Compact()
}

func (t *table[K, V]) trace(msg string, kv ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, kv...)
	}
}

// checkInvariants re-derives I2-I4 and I6 from spec.md section 8 from
// scratch and panics with a description of the first violation found. It
// is a no-op unless the package-level invariants switch is enabled, which
// tests do unconditionally via TestMain.
func (t *table[K, V]) checkInvariants() {
	if !invariants {
		return
	}
	n := uint32(t.dense.Len())
	seen := make([]bool, n)
	nonEmpty := 0
	mask := t.bucketMask()
	for i, word := range t.meta {
		if word == 0 {
			continue
		}
		nonEmpty++
		dispFp := uint32(word >> 32)
		valueIdx := uint32(word)
		if valueIdx >= n {
			panic(fmt.Sprintf("I2 violated: slot %d references out-of-range value_idx %d (len=%d)\n%s", i, valueIdx, n, t.debugString()))
		}
		if seen[valueIdx] {
			panic(fmt.Sprintf("I2/I3 violated: value_idx %d referenced by more than one slot\n%s", valueIdx, t.debugString()))
		}
		seen[valueIdx] = true

		key := t.dense.At(valueIdx).Key
		h := t.hashOf(key)
		home := h >> t.shift
		steps := (uint64(i) - home) & mask
		wantDisp := uint32(steps) + 1
		gotDisp := dispFp >> fingerprintBits
		if gotDisp != wantDisp {
			panic(fmt.Sprintf("I3 violated: slot %d has displacement %d, want %d (home=%d)\n%s", i, gotDisp, wantDisp, home, t.debugString()))
		}
		fp := dispFp & fingerprintMask
		wantFp := uint32(h & fingerprintMask)
		if fp != wantFp {
			panic(fmt.Sprintf("I4 violated: slot %d has fingerprint %02x, want %02x\n%s", i, fp, wantFp, t.debugString()))
		}
	}
	if nonEmpty != int(n) {
		panic(fmt.Sprintf("I2 violated: %d non-empty slots, expected %d\n%s", nonEmpty, n, t.debugString()))
	}
	if uint64(n) > t.capacity {
		panic(fmt.Sprintf("I6 violated: %d entries exceeds capacity %d", n, t.capacity))
	}
}

func (t *table[K, V]) debugString() string {
	return fmt.Sprintf("shift=%d buckets=%d capacity=%d used=%d", t.shift, t.bucketCount(), t.capacity, t.dense.Len())
}
