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
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/tombee/lfshell/internal/accounts"
	"github.com/tombee/lfshell/internal/audit"
	"github.com/tombee/lfshell/internal/executor/executortest"
	"github.com/tombee/lfshell/internal/registry"
)

type signalCall struct {
	pid int
	sig syscall.Signal
}

// harness is a session wired to in-memory logs and a recording runner.
type harness struct {
	t        *testing.T
	env      *Env
	d        *Dispatcher
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	history  *audit.Memory
	errors   *audit.Memory
	runner   *executortest.Recorder
	registry *registry.Registry
	signals  []signalCall
	accounts *accounts.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		history: audit.NewMemory(),
		errors:  audit.NewMemory(),
		runner:  executortest.NewRecorder(),
	}

	h.registry = registry.New(t.TempDir(), t.TempDir(), h.runner, nil)
	h.registry.Signal = func(pid int, sig syscall.Signal) error {
		h.signals = append(h.signals, signalCall{pid, sig})
		return nil
	}

	h.accounts = accounts.NewManager(h.runner, filepath.Join(t.TempDir(), "usuarios.txt"), nil)
	h.accounts.LookupUser = func(name string) error {
		if name == "ana" {
			return nil
		}
		return errors.New("unknown user")
	}

	// The session directory is kept symlink-free by ir, so start from one
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}

	h.env = &Env{
		Dir:      dir,
		Stdout:   h.stdout,
		Stderr:   h.stderr,
		Trail:    audit.NewTrail(h.history, h.errors, h.stderr),
		Runner:   h.runner,
		Daemons:  h.registry,
		Accounts: h.accounts,
	}
	h.d = NewDispatcher(0, nil)
	return h
}

func (h *harness) run(line string) error {
	h.t.Helper()
	return h.d.Dispatch(context.Background(), h.env, line)
}

func (h *harness) path(name string) string {
	return filepath.Join(h.env.Dir, name)
}

func (h *harness) reset() {
	h.stdout.Reset()
	h.stderr.Reset()
}
