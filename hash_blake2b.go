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
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// BlakeStringHasher hashes string keys with blake2b-256 and keeps the first
// 8 bytes of the digest, read little-endian, as the 64-bit hash. blake2b's own mixing already satisfies the
// avalanching property, so BlakeStringHasher embeds AvalanchingMarker to
// opt the engine out of its own multiply-xor mixing step — this is the
// reference exercise of that capability tag extension point.
type BlakeStringHasher struct {
	AvalanchingMarker
	key [32]byte // optional keyed-hash key; zero value is unkeyed
}

// NewBlakeStringHasher constructs a BlakeStringHasher, optionally keyed so
// that two processes computing the "same" hash function produce different
// bucket layouts (useful for hash-flooding resistance in long-lived
// servers). A nil or empty key means unkeyed.
func NewBlakeStringHasher(key []byte) BlakeStringHasher {
	var h BlakeStringHasher
	copy(h.key[:], key)
	return h
}

// Hash implements Hasher[string].
func (h BlakeStringHasher) Hash(s string) uint64 {
	var key []byte
	if h.key != [32]byte{} {
		key = h.key[:]
	}
	mac, err := blake2b.New256(key)
	if err != nil {
		// blake2b.New256 only rejects keys longer than 64 bytes; h.key is
		// always exactly 0 or 32 bytes.
		panic(err)
	}
	mac.Write([]byte(s))
	sum := mac.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}
