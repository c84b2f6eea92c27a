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

package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPIDFilePath(t *testing.T) {
	if got, want := PIDFilePath("/run", "sshd"), "/run/sshd.pid"; got != want {
		t.Errorf("PIDFilePath() = %q, want %q", got, want)
	}
}

func TestPIDFileManager_Read(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(t *testing.T, name, content string) *PIDFileManager {
		t.Helper()
		pidPath := filepath.Join(tmpDir, name+".pid")
		if err := os.WriteFile(pidPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		return NewPIDFileManager(pidPath)
	}

	t.Run("reads valid PID", func(t *testing.T) {
		pid, err := write(t, "valid", "9999\n").Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if pid != 9999 {
			t.Errorf("Read() = %d, want 9999", pid)
		}
	})

	t.Run("uses only the first line", func(t *testing.T) {
		pid, err := write(t, "multiline", "321\nstarted by bootscript\n").Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if pid != 321 {
			t.Errorf("Read() = %d, want 321", pid)
		}
	})

	t.Run("handles whitespace", func(t *testing.T) {
		pid, err := write(t, "whitespace", "  1234  \n").Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if pid != 1234 {
			t.Errorf("Read() = %d, want 1234", pid)
		}
	})

	t.Run("returns not-exist error for missing file", func(t *testing.T) {
		_, err := NewPIDFileManager(filepath.Join(tmpDir, "nonexistent.pid")).Read()
		if !os.IsNotExist(err) {
			t.Errorf("Read() error = %v, want os.IsNotExist", err)
		}
	})

	t.Run("returns error for invalid PID", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"non-numeric", "not-a-number\n"},
			{"negative", "-123\n"},
			{"zero", "0\n"},
			{"float", "123.45\n"},
			{"empty", ""},
			{"blank first line", "\n123\n"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := write(t, tt.name, tt.content).Read()
				if !errors.Is(err, ErrInvalidPID) {
					t.Errorf("Read() error = %v, want ErrInvalidPID", err)
				}
			})
		}
	})
}
