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

// Package format renders interpreter notices, with terminal styling only
// when the output is a terminal.
package format

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// StatusOK styles success indicators
	StatusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // green

	// StatusError styles error indicators
	StatusError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red

	// Muted styles secondary text
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray

	// PromptStyle styles the interactive prompt
	PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")) // blue bold
)

// Symbols for status indicators
const (
	SymbolOK    = "✓"
	SymbolError = "✗"
)

// Styler renders notices. The zero value renders plain text.
type Styler struct {
	Color bool
}

// NewStyler returns a styler that colors output when color is true.
func NewStyler(color bool) *Styler {
	return &Styler{Color: color}
}

// RenderOK renders a success notice.
func (s *Styler) RenderOK(msg string) string {
	if s == nil || !s.Color {
		return msg
	}
	return StatusOK.Render(SymbolOK) + " " + msg
}

// RenderError renders a failure notice.
func (s *Styler) RenderError(msg string) string {
	if s == nil || !s.Color {
		return msg
	}
	return StatusError.Render(SymbolError) + " " + msg
}

// RenderMuted renders secondary text.
func (s *Styler) RenderMuted(msg string) string {
	if s == nil || !s.Color {
		return msg
	}
	return Muted.Render(msg)
}

// RenderPrompt renders the prompt. Trailing spaces are kept outside the
// styled span so the cursor position does not change.
func (s *Styler) RenderPrompt(prompt string) string {
	if s == nil || !s.Color {
		return prompt
	}
	body := prompt
	tail := ""
	for len(body) > 0 && body[len(body)-1] == ' ' {
		body = body[:len(body)-1]
		tail += " "
	}
	return PromptStyle.Render(body) + tail
}
