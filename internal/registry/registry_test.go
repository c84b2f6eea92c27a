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

package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/lfshell/internal/executor"
	"github.com/tombee/lfshell/internal/executor/executortest"
	"github.com/tombee/lfshell/internal/lifecycle"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

type sent struct {
	pid int
	sig syscall.Signal
}

type fixture struct {
	reg    *Registry
	runner *executortest.Recorder
	sent   []sent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{runner: executortest.NewRecorder()}
	f.reg = New(t.TempDir(), t.TempDir(), f.runner, nil)
	f.reg.Signal = func(pid int, sig syscall.Signal) error {
		f.sent = append(f.sent, sent{pid, sig})
		return nil
	}
	return f
}

func (f *fixture) script(t *testing.T, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(f.reg.Dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode))
	require.NoError(t, os.Chmod(path, mode))
	return path
}

func (f *fixture) pidFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(lifecycle.PIDFilePath(f.reg.RunDir, name), []byte(content), 0644))
}

func TestRegistry_List(t *testing.T) {
	f := newFixture(t)
	f.script(t, "sshd", 0755)
	f.script(t, "cron", 0755)
	f.script(t, "README", 0644)
	f.script(t, ".hidden", 0755)
	f.script(t, "network.dpkg-old", 0755)
	require.NoError(t, os.Mkdir(filepath.Join(f.reg.Dir, "rc0.d"), 0755))
	f.reg.Ignore = []string{"*.dpkg-*"}

	got, err := f.reg.List()
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"cron", "sshd"}, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_ListMissingDir(t *testing.T) {
	f := newFixture(t)
	f.reg.Dir = filepath.Join(f.reg.Dir, "missing")

	_, err := f.reg.List()
	var resErr *lfsherrors.ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestRegistry_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the bootscript with the start action", func(t *testing.T) {
		f := newFixture(t)
		path := f.script(t, "sshd", 0755)

		require.NoError(t, f.reg.Start(ctx, "sshd"))
		if diff := cmp.Diff([][]string{{path, "start"}}, f.runner.Argvs()); diff != "" {
			t.Errorf("spawned argv mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing daemon spawns nothing", func(t *testing.T) {
		f := newFixture(t)

		err := f.reg.Start(ctx, "nope")
		var nf *lfsherrors.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "nope", nf.ID)
		assert.Empty(t, f.runner.Requests())
	})

	t.Run("non-executable daemon spawns nothing", func(t *testing.T) {
		f := newFixture(t)
		f.script(t, "README", 0644)

		err := f.reg.Start(ctx, "README")
		assert.ErrorIs(t, err, ErrNotExecutable)
		assert.Empty(t, f.runner.Requests())
	})

	t.Run("directory entry spawns nothing", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.Mkdir(filepath.Join(f.reg.Dir, "rc0.d"), 0755))

		assert.ErrorIs(t, f.reg.Start(ctx, "rc0.d"), ErrNotExecutable)
		assert.Empty(t, f.runner.Requests())
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		f := newFixture(t)
		for _, name := range []string{"", ".", "..", "../bin/sh", "a/b", ".hidden"} {
			err := f.reg.Start(ctx, name)
			var ve *lfsherrors.ValidationError
			assert.ErrorAs(t, err, &ve, "name %q", name)
		}
		assert.Empty(t, f.runner.Requests())
	})

	t.Run("failed bootscript is an error", func(t *testing.T) {
		f := newFixture(t)
		path := f.script(t, "sshd", 0755)
		f.runner.SetResult(path, executor.Result{Exited: true, ExitCode: 1})

		err := f.reg.Start(ctx, "sshd")
		var exitErr *executor.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Result.ExitCode)
	})

	t.Run("spawn failure is returned", func(t *testing.T) {
		f := newFixture(t)
		path := f.script(t, "sshd", 0755)
		f.runner.SetError(path, &lfsherrors.SpawnError{Argv: []string{path, "start"}, Cause: os.ErrPermission})

		var spawnErr *lfsherrors.SpawnError
		assert.ErrorAs(t, f.reg.Start(ctx, "sshd"), &spawnErr)
	})
}

func TestRegistry_StartRealScript(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "started")
	script := filepath.Join(dir, "svc")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n[ \"$1\" = start ] && touch "+marker+"\n"), 0755))

	runner := executor.New(nil)
	reg := New(dir, t.TempDir(), runner, nil)
	require.NoError(t, reg.Start(context.Background(), "svc"))

	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRegistry_Stop(t *testing.T) {
	t.Run("signals the recorded pid", func(t *testing.T) {
		f := newFixture(t)
		f.pidFile(t, "sshd", "4242\n")

		require.NoError(t, f.reg.Stop("sshd"))
		assert.Equal(t, []sent{{4242, syscall.SIGTERM}}, f.sent)
	})

	t.Run("uses the configured stop signal", func(t *testing.T) {
		f := newFixture(t)
		f.pidFile(t, "sshd", "4242\n")
		f.reg.StopSignal = syscall.SIGINT

		require.NoError(t, f.reg.Stop("sshd"))
		assert.Equal(t, []sent{{4242, syscall.SIGINT}}, f.sent)
	})

	t.Run("missing pid file sends nothing", func(t *testing.T) {
		f := newFixture(t)

		assert.ErrorIs(t, f.reg.Stop("sshd"), ErrNotRunning)
		assert.Empty(t, f.sent)
	})

	t.Run("garbage pid file sends nothing", func(t *testing.T) {
		f := newFixture(t)
		f.pidFile(t, "sshd", "garbage\n")

		assert.ErrorIs(t, f.reg.Stop("sshd"), ErrNotRunning)
		assert.Empty(t, f.sent)
	})

	t.Run("delivery errors are returned", func(t *testing.T) {
		f := newFixture(t)
		f.pidFile(t, "sshd", "4242\n")
		f.reg.Signal = func(pid int, sig syscall.Signal) error {
			return &lfsherrors.SignalError{PID: pid, Signal: "SIGTERM", Cause: lifecycle.ErrProcessNotRunning}
		}

		assert.ErrorIs(t, f.reg.Stop("sshd"), lifecycle.ErrProcessNotRunning)
	})
}

func TestRegistry_Status(t *testing.T) {
	f := newFixture(t)
	f.pidFile(t, "sshd", "77\n")

	d, err := f.reg.Status("sshd")
	require.NoError(t, err)
	assert.True(t, d.Running)
	assert.Equal(t, 77, d.PID)
	assert.Equal(t, filepath.Join(f.reg.RunDir, "sshd.pid"), d.PIDFile)

	d, err = f.reg.Status("cron")
	require.NoError(t, err)
	assert.False(t, d.Running)
	assert.Zero(t, d.PID)
}

func TestRegistry_StatusReportsCommand(t *testing.T) {
	f := newFixture(t)
	f.pidFile(t, "self", strconv.Itoa(os.Getpid())+"\n")
	f.pidFile(t, "stale", "99999999\n")

	d, err := f.reg.Status("self")
	require.NoError(t, err)
	assert.NotEmpty(t, d.Command)

	// A stale PID file still reads as running
	d, err = f.reg.Status("stale")
	require.NoError(t, err)
	assert.True(t, d.Running)
	assert.Empty(t, d.Command)
}
