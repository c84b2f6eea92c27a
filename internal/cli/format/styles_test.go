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

package format

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestStyler_Plain(t *testing.T) {
	for _, s := range []*Styler{nil, {}, NewStyler(false)} {
		assert.Equal(t, "Permisos cambiados para: a", s.RenderOK("Permisos cambiados para: a"))
		assert.Equal(t, "Error: x", s.RenderError("Error: x"))
		assert.Equal(t, "dim", s.RenderMuted("dim"))
		assert.Equal(t, "lfs-shell> ", s.RenderPrompt("lfs-shell> "))
	}
}

func TestStyler_Color(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	defer lipgloss.SetColorProfile(old)

	s := NewStyler(true)

	ok := s.RenderOK("listo")
	assert.Contains(t, ok, SymbolOK)
	assert.True(t, strings.HasSuffix(ok, " listo"))
	assert.Contains(t, ok, "\x1b[")

	assert.Contains(t, s.RenderError("fallo"), SymbolError)

	prompt := s.RenderPrompt("lfs-shell> ")
	assert.Contains(t, prompt, "lfs-shell>")
	assert.True(t, strings.HasSuffix(prompt, "m "), "trailing space must stay unstyled: %q", prompt)
}

func TestIsTerminal(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, IsTerminal(f))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsTerminal(os.Stdout))

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, IsTerminal(os.Stdout))
}
