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

import "go.uber.org/zap"

// Logger is the structured tracer the engine reports grow/rehash/reserve
// events to. It is nil by default, so a Map or Set installed without a
// logger pays no tracing overhead. Install one with Map.SetLogger /
// Set.SetLogger, typically sourced from a *zap.Logger via NewLogger.
type Logger struct {
	z *zap.SugaredLogger
}

// NewLogger wraps a *zap.Logger for use as a table's tracer.
func NewLogger(z *zap.Logger) *Logger {
	return &Logger{z: z.Sugar()}
}

// Debug logs msg with the given alternating key/value pairs at debug level.
func (l *Logger) Debug(msg string, kv ...any) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Debugw(msg, kv...)
}
