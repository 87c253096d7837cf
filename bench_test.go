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
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
)

func BenchmarkMapGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapGetHit[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapGetHit[string], genKeys[string]))
	})
	b.Run("impl=densemap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkDenseMapGetHit[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkDenseMapGetHit[string], genKeys[string]))
	})
}

func BenchmarkMapGetMiss(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapGetMiss[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapGetMiss[string], genKeys[string]))
	})
	b.Run("impl=densemap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkDenseMapGetMiss[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkDenseMapGetMiss[string], genKeys[string]))
	})
}

func BenchmarkMapPutGrow(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutGrow[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutGrow[string], genKeys[string]))
	})
	b.Run("impl=densemap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkDenseMapPutGrow[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkDenseMapPutGrow[string], genKeys[string]))
	})
}

func BenchmarkMapPutPreAllocate(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutPreAllocate[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutPreAllocate[string], genKeys[string]))
	})
	b.Run("impl=densemap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkDenseMapPutPreAllocate[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkDenseMapPutPreAllocate[string], genKeys[string]))
	})
}

func BenchmarkMapPutDelete(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutDelete[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutDelete[string], genKeys[string]))
	})
	b.Run("impl=densemap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkDenseMapPutDelete[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkDenseMapPutDelete[string], genKeys[string]))
	})
}

func BenchmarkMapIterAll(b *testing.B) {
	b.Run("t=Int64", benchSizes(benchmarkDenseMapIterAll[int64], genKeys[int64]))
	b.Run("t=String", benchSizes(benchmarkDenseMapIterAll[string], genKeys[string]))
}

type benchTypes interface {
	int64 | string
}

func benchHasher[T benchTypes]() Hasher[T] {
	var t T
	switch any(t).(type) {
	case int64:
		return HashFunc[T](func(k T) uint64 {
			return uint64(any(k).(int64))
		})
	case string:
		return HashFunc[T](func(k T) uint64 {
			s := any(k).(string)
			var h uint64 = 14695981039346656037
			for i := 0; i < len(s); i++ {
				h ^= uint64(s[i])
				h *= 1099511628211
			}
			return h
		})
	default:
		panic("not reached")
	}
}

func benchEqualer[T benchTypes]() Equaler[T] {
	return EqualFunc[T](func(a, b T) bool { return a == b })
}

func benchSizes[T benchTypes](
	f func(b *testing.B, n int, genKeys func(start, end int) []T), genKeys func(start, end int) []T,
) func(*testing.B) {
	var cases = []int{
		64,
		256,
		1024,
		4096,
		1 << 16,
	}

	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n, genKeys) })
		}
	}
}

func genKeys[T benchTypes](start, end int) []T {
	var t T
	switch any(t).(type) {
	case int64:
		keys := make([]int64, end-start)
		for i := range keys {
			keys[i] = int64(start + i)
		}
		out := make([]T, len(keys))
		for i, k := range keys {
			out[i] = any(k).(T)
		}
		return out
	case string:
		keys := make([]string, end-start)
		for i := range keys {
			keys[i] = strconv.Itoa(start + i)
		}
		out := make([]T, len(keys))
		for i, k := range keys {
			out[i] = any(k).(T)
		}
		return out
	default:
		panic("not reached")
	}
}

func benchmarkRuntimeMapGetHit[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := make(map[T]T, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	for i := 0; i < b.N; i++ {
		_ = m[keys[i%n]]
	}
}

func benchmarkDenseMapGetHit[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := New[T, T](benchHasher[T](), benchEqualer[T](), WithCapacityHint[T, T](n))
	keys := genKeys(0, n)
	for _, k := range keys {
		_, _, _ = m.Insert(k, k)
	}
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(keys[i%n])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapGetMiss[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := make(map[T]T, n)
	keys := genKeys(0, n)
	miss := genKeys(-n, 0)
	for _, k := range keys {
		m[k] = k
	}
	for i := 0; i < b.N; i++ {
		_ = m[miss[i%len(miss)]]
	}
}

func benchmarkDenseMapGetMiss[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := New[T, T](benchHasher[T](), benchEqualer[T](), WithCapacityHint[T, T](n))
	keys := genKeys(0, n)
	miss := genKeys(-n, 0)
	for _, k := range keys {
		_, _, _ = m.Insert(k, k)
	}
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(miss[i%len(miss)])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapPutGrow[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	keys := genKeys(0, n)
	for i := 0; i < b.N; i++ {
		m := make(map[T]T)
		for _, k := range keys {
			m[k] = k
		}
	}
}

func benchmarkDenseMapPutGrow[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	keys := genKeys(0, n)
	for i := 0; i < b.N; i++ {
		m := New[T, T](benchHasher[T](), benchEqualer[T]())
		for _, k := range keys {
			_, _, _ = m.Insert(k, k)
		}
	}
}

func benchmarkRuntimeMapPutPreAllocate[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	keys := genKeys(0, n)
	for i := 0; i < b.N; i++ {
		m := make(map[T]T, n)
		for _, k := range keys {
			m[k] = k
		}
	}
}

func benchmarkDenseMapPutPreAllocate[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	keys := genKeys(0, n)
	for i := 0; i < b.N; i++ {
		m := New[T, T](benchHasher[T](), benchEqualer[T](), WithCapacityHint[T, T](n))
		for _, k := range keys {
			_, _, _ = m.Insert(k, k)
		}
	}
}

func benchmarkRuntimeMapPutDelete[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := make(map[T]T, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	for i := 0; i < b.N; i++ {
		j := i % n
		delete(m, keys[j])
		m[keys[j]] = keys[j]
	}
}

func benchmarkDenseMapPutDelete[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := New[T, T](benchHasher[T](), benchEqualer[T](), WithCapacityHint[T, T](n))
	keys := genKeys(0, n)
	for _, k := range keys {
		_, _, _ = m.Insert(k, k)
	}
	for i := 0; i < b.N; i++ {
		j := i % n
		m.Erase(keys[j])
		_, _, _ = m.Insert(keys[j], keys[j])
	}
}

func benchmarkDenseMapIterAll[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	perfbench.Open(b)
	m := New[T, T](benchHasher[T](), benchEqualer[T](), WithCapacityHint[T, T](n))
	keys := genKeys(0, n)
	for _, k := range keys {
		_, _, _ = m.Insert(k, k)
	}
	var tmp int
	for i := 0; i < b.N; i++ {
		m.All(func(k, v T) bool {
			tmp++
			return true
		})
	}
}

// BenchmarkProbeCacheLineLocality times hit lookups in a map holding one
// cache line's worth of entries (slotsPerCacheLine, from cpuinfo.go) versus
// one holding four times that many. The metadata array is sized by the
// load factor, not by the cache line, so neither run is confined to exactly
// that many slots or cache lines. The sub-benchmark
// names report slotsPerCacheLine directly so the constant is visible in
// `go test -bench` output rather than sitting unread in the engine.
func BenchmarkProbeCacheLineLocality(b *testing.B) {
	b.Run(fmt.Sprintf("slots=%d(1_cacheline)", slotsPerCacheLine), func(b *testing.B) {
		benchmarkProbeRun(b, int(slotsPerCacheLine))
	})
	b.Run(fmt.Sprintf("slots=%d(4_cachelines)", 4*slotsPerCacheLine), func(b *testing.B) {
		benchmarkProbeRun(b, int(4*slotsPerCacheLine))
	})
}

func benchmarkProbeRun(b *testing.B, n int) {
	perfbench.Open(b)
	m := New[int64, int64](benchHasher[int64](), benchEqualer[int64](), WithCapacityHint[int64, int64](n))
	for i := 0; i < n; i++ {
		_, _, _ = m.Insert(int64(i), int64(i))
	}
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(int64(i % n))
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}
