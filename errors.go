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

import "errors"

// ErrKeyNotFound is returned by At when the requested key has no entry.
var ErrKeyNotFound = errors.New("densemap: key not found")

// ErrCapacityExceeded is returned by any insert-shaped call that would push
// the live entry count past 2^32-1. The table never partially mutates when
// this is returned.
var ErrCapacityExceeded = errors.New("densemap: capacity exceeded")

// maxEntries is the largest number of live entries the engine supports,
// matching the value_idx field width.
const maxEntries = 1<<32 - 1
