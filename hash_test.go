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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashFuncAdapter(t *testing.T) {
	var h Hasher[int] = HashFunc[int](func(k int) uint64 { return uint64(k) * 7 })
	require.EqualValues(t, 21, h.Hash(3))
}

func TestEqualFuncAdapter(t *testing.T) {
	var e Equaler[int] = EqualFunc[int](func(a, b int) bool { return a == b })
	require.True(t, e.Equal(5, 5))
	require.False(t, e.Equal(5, 6))
}

func TestMixedHashAppliesMixUnlessAvalanching(t *testing.T) {
	plain := HashFunc[int](func(k int) uint64 { return uint64(k) })
	require.False(t, isAvalanching[int](plain))
	require.NotEqual(t, uint64(5), mixedHash[int](plain, 5), "mix64 should transform a non-avalanching hash")

	blake := NewBlakeStringHasher(nil)
	require.True(t, isAvalanching[string](blake))
	require.Equal(t, blake.Hash("x"), mixedHash[string](blake, "x"))
}

func TestBlakeStringHasherKeyedVsUnkeyed(t *testing.T) {
	unkeyed := NewBlakeStringHasher(nil)
	keyed := NewBlakeStringHasher([]byte("some-32-byte-key-padded-with-0s"))
	require.NotEqual(t, unkeyed.Hash("same input"), keyed.Hash("same input"))
}

func TestBlakeStringHasherDeterministic(t *testing.T) {
	h := NewBlakeStringHasher([]byte("key"))
	require.Equal(t, h.Hash("abc"), h.Hash("abc"))
}
