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
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line size golang.org/x/sys/cpu assumes for the
// target architecture (the size of cpu.CacheLinePad), used here to document
// how many metadata slots (8 bytes each) a single probe step's cache-line
// fetch actually covers.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// slotsPerCacheLine is the number of 8-byte metadata slots that share a
// cache line, i.e. how many consecutive probe steps are effectively free
// once the first one has faulted the line in. Exercised directly in
// BenchmarkProbeCacheLineLocality (bench_test.go), which sizes its maps
// from it, and in TestSlotsPerCacheLineDividesCacheLine (cpuinfo_test.go).
const slotsPerCacheLine = CacheLineSize / 8
