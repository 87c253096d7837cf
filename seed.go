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
	"time"

	"golang.org/x/exp/rand"
)

// processSeed is a random 64-bit value drawn once per process, intended to
// be folded into a caller-supplied Hasher (e.g. xored into a hash or used to
// key BlakeStringHasher) so that two runs of the same program build
// different bucket layouts for the same keys. The container itself never
// uses this value: there is no default hash, by spec, so there is nothing
// to perturb automatically.
var processSeed = rand.New(rand.NewSource(uint64(time.Now().UnixNano()))).Uint64()

// RandomSeed returns a value suitable for perturbing a Hasher against
// hash-flooding, sourced from a process-lifetime PRNG seeded independently
// of the container's own mixing step.
func RandomSeed() uint64 { return processSeed }
