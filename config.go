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

	"github.com/BurntSushi/toml"
)

// BenchConfig is the TOML-loadable configuration consumed by
// cmd/densebench. It is not used by the container itself, which is
// deliberately free of any persistence or configuration surface; it exists
// only to drive the demo/benchmark binary.
type BenchConfig struct {
	// CapacityHint seeds the map's initial reserve.
	CapacityHint int `toml:"capacity_hint"`
	// MaxLoadFactor overrides the default 0.8 threshold.
	MaxLoadFactor float64 `toml:"max_load_factor"`
	// KeyDistribution selects how keys are generated: "sequential",
	// "uniform", or "zipf".
	KeyDistribution string `toml:"key_distribution"`
	// Operations is how many insert/find/erase operations to run.
	Operations int `toml:"operations"`
	// LogFile is the lumberjack-rotated file debug tracing is written to.
	// Empty disables tracing.
	LogFile string `toml:"log_file"`
}

// DefaultBenchConfig returns the configuration used when no TOML file is
// supplied.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		CapacityHint:    1 << 16,
		MaxLoadFactor:   defaultMaxLoadFactor,
		KeyDistribution: "uniform",
		Operations:      1 << 20,
		LogFile:         "",
	}
}

// LoadBenchConfig reads and parses a TOML file at path into cfg, starting
// from DefaultBenchConfig's values so a partial file only overrides what it
// mentions.
func LoadBenchConfig(path string) (BenchConfig, error) {
	cfg := DefaultBenchConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return BenchConfig{}, fmt.Errorf("densemap: loading bench config: %w", err)
	}
	return cfg, nil
}
