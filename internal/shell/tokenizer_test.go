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

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		max  int
		want []string
	}{
		{"empty", "", 0, []string{}},
		{"whitespace only", " \t \r\n\v\f", 0, []string{}},
		{"single", "mostrar\n", 0, []string{"mostrar"}},
		{"mixed separators", "  copiar\ta.txt   b.txt\r\n", 0, []string{"copiar", "a.txt", "b.txt"}},
		{"no quoting", `echo "a b" 'c'`, 0, []string{"echo", `"a`, `b"`, `'c'`}},
		{"no globbing or expansion", "ls * $HOME", 0, []string{"ls", "*", "$HOME"}},
		{"cap drops extra tokens", "a b c d e", 3, []string{"a", "b", "c"}},
		{"cap equal to count", "a b c", 3, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.line, tt.max)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestTokenize_DefaultCap(t *testing.T) {
	fields := make([]string, 150)
	for i := range fields {
		fields[i] = "x"
	}
	got := Tokenize(strings.Join(fields, " "), 0)
	if len(got) != DefaultMaxArgs {
		t.Errorf("len(Tokenize()) = %d, want %d", len(got), DefaultMaxArgs)
	}
}

func TestTokenize_NoEmptyTokens(t *testing.T) {
	for _, line := range []string{"a  b", "\ta\t\tb\t", "a\n\nb"} {
		for _, tok := range Tokenize(line, 0) {
			if tok == "" || strings.ContainsAny(tok, " \t\n") {
				t.Errorf("Tokenize(%q) produced token %q", line, tok)
			}
		}
	}
}
