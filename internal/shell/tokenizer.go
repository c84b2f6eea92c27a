// Copyright 2025 Tom Barlow
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

package shell

import "strings"

// DefaultMaxArgs is the number of tokens kept from a line when no cap is
// configured.
const DefaultMaxArgs = 99

// Tokenize splits line on runs of whitespace. At most max tokens are
// returned and the rest are dropped; max <= 0 means DefaultMaxArgs. There is
// no quoting or escaping, so every token is a maximal non-space run.
func Tokenize(line string, max int) []string {
	if max <= 0 {
		max = DefaultMaxArgs
	}
	fields := strings.Fields(line)
	if len(fields) > max {
		fields = fields[:max]
	}
	return fields
}
