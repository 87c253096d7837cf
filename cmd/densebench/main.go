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

// Command densebench drives a densemap.Map through a configurable sequence
// of inserts, finds, and erases, reporting timing, the final entry count,
// and the configured max load factor. It
// exists to exercise the container's configuration and logging surface
// outside of the test binary, not as a rigorous benchmark harness.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/duckdoom5/unordered-dense"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML bench config (defaults used if empty)")
	flag.Parse()

	cfg := densemap.DefaultBenchConfig()
	if *configPath != "" {
		loaded, err := densemap.LoadBenchConfig(*configPath)
		if err != nil {
			log.Fatalf("densebench: %v", err)
		}
		cfg = loaded
	}

	m := densemap.New[uint64, uint64](
		densemap.HashFunc[uint64](identityHash),
		densemap.EqualFunc[uint64](func(a, b uint64) bool { return a == b }),
		densemap.WithCapacityHint[uint64, uint64](cfg.CapacityHint),
		densemap.WithMaxLoadFactor[uint64, uint64](cfg.MaxLoadFactor),
	)

	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{Filename: cfg.LogFile, MaxSize: 64, MaxBackups: 3}
		defer lj.Close()
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core := zapcore.NewCore(encoder, zapcore.AddSync(lj), zap.DebugLevel)
		zl := zap.New(core)
		defer zl.Sync()
		m.SetLogger(densemap.NewLogger(zl))
	}

	keys := generateKeys(cfg.KeyDistribution, cfg.Operations)

	start := time.Now()
	for i, k := range keys {
		if _, _, err := m.Insert(k, uint64(i)); err != nil {
			log.Fatalf("densebench: insert: %v", err)
		}
	}
	insertElapsed := time.Since(start)

	start = time.Now()
	hits := 0
	for _, k := range keys {
		if m.Contains(k) {
			hits++
		}
	}
	findElapsed := time.Since(start)

	start = time.Now()
	for i := 0; i < len(keys)/2; i++ {
		m.Erase(keys[i])
	}
	eraseElapsed := time.Since(start)

	fmt.Fprintf(os.Stdout, "operations=%d distribution=%s\n", cfg.Operations, cfg.KeyDistribution)
	fmt.Fprintf(os.Stdout, "insert: %v (%v/op)\n", insertElapsed, insertElapsed/time.Duration(len(keys)))
	fmt.Fprintf(os.Stdout, "find:   %v (%v/op), hits=%d\n", findElapsed, findElapsed/time.Duration(len(keys)), hits)
	fmt.Fprintf(os.Stdout, "erase:  %v\n", eraseElapsed)
	fmt.Fprintf(os.Stdout, "final len=%d max_load_factor=%.2f\n", m.Len(), m.MaxLoadFactor())
}

func identityHash(k uint64) uint64 { return k }

func generateKeys(distribution string, n int) []uint64 {
	keys := make([]uint64, n)
	switch distribution {
	case "sequential":
		for i := range keys {
			keys[i] = uint64(i)
		}
	case "zipf":
		r := rand.New(rand.NewSource(1))
		z := rand.NewZipf(r, 1.1, 1, uint64(n*4))
		for i := range keys {
			keys[i] = z.Uint64()
		}
	default: // "uniform"
		r := rand.New(rand.NewSource(1))
		for i := range keys {
			keys[i] = r.Uint64()
		}
	}
	return keys
}
