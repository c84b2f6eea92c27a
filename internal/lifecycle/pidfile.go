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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrInvalidPID is returned when the PID file contains invalid data.
var ErrInvalidPID = errors.New("invalid PID in file")

// PIDFileManager reads the PID file at a single path. Daemons write their
// own PID files; the interpreter never creates or removes them.
type PIDFileManager struct {
	path string
}

// NewPIDFileManager creates a new PID file manager for the given path.
func NewPIDFileManager(path string) *PIDFileManager {
	return &PIDFileManager{
		path: path,
	}
}

// PIDFilePath returns the conventional PID file path for a daemon name.
func PIDFilePath(runDir, name string) string {
	return filepath.Join(runDir, name+".pid")
}

// Read returns the PID recorded on the first line of the file.
// A missing file yields an error satisfying os.IsNotExist; anything that is
// not a positive decimal integer yields ErrInvalidPID.
func (m *PIDFileManager) Read() (int, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	first := ""
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if scanner.Scan() {
		first = scanner.Text()
	}

	pidStr := strings.TrimSpace(first)
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPID, pidStr)
	}

	if pid <= 0 {
		return 0, fmt.Errorf("%w: PID must be positive, got %d", ErrInvalidPID, pid)
	}

	return pid, nil
}
