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
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestProcessCommand(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start sleep process: %v", err)
	}
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	got, err := ProcessCommand(cmd.Process.Pid)
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}
	if !strings.Contains(got, "sleep 30") {
		t.Errorf("ProcessCommand() = %q, want it to contain %q", got, "sleep 30")
	}

	if _, err := ProcessCommand(os.Getpid()); err != nil {
		t.Errorf("ProcessCommand(self) error = %v", err)
	}
}

func TestProcessCommand_Vanished(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to run true: %v", err)
	}
	if _, err := ProcessCommand(cmd.Process.Pid); err == nil {
		t.Error("ProcessCommand() of a reaped process should fail")
	}
}
