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

// Package executor runs external programs in the foreground: spawn, wait,
// and report how the child ended.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/tombee/lfshell/internal/lifecycle"
	"github.com/tombee/lfshell/internal/log"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// ErrEmptyArgv is returned when there is nothing to run.
var ErrEmptyArgv = errors.New("empty argument vector")

// Runner spawns programs and waits for them.
type Runner interface {
	// Run spawns argv[0] with argv and blocks until the child is reaped.
	// An unsuccessful outcome is described by the Result, not by the error.
	Run(ctx context.Context, req Request) (*Result, error)

	// RunAction runs "path action", the bootscript calling convention.
	RunAction(ctx context.Context, path, action string) (*Result, error)
}

// Request describes one program invocation.
type Request struct {
	Argv []string
	// Dir is the child's working directory. Empty inherits the interpreter's.
	Dir string
}

// Result is the termination status of a reaped child.
type Result struct {
	PID      int
	Exited   bool
	ExitCode int
	Signaled bool
	Signal   syscall.Signal
}

// Success reports whether the child exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.Exited && r.ExitCode == 0
}

// Err converts an unsuccessful outcome into an error. It returns nil on success.
func (r *Result) Err() error {
	if r == nil {
		return errors.New("no result")
	}
	if r.Success() {
		return nil
	}
	return &ExitError{Result: *r}
}

// ExitError reports a child that did not exit cleanly.
type ExitError struct {
	Result Result
}

func (e *ExitError) Error() string {
	if e.Result.Signaled {
		return fmt.Sprintf("proceso %d terminado por la señal %s", e.Result.PID, lifecycle.SignalName(e.Result.Signal))
	}
	return fmt.Sprintf("proceso %d terminó con código %d", e.Result.PID, e.Result.ExitCode)
}

// Executor is the Runner backed by real OS processes. The child shares the
// interpreter's standard streams unless they are overridden.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// New returns an executor wired to the process's own stdio.
func New(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = log.Discard()
	}
	return &Executor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: log.WithComponent(logger, "executor"),
	}
}

// Run implements Runner.
func (e *Executor) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Argv) == 0 {
		return nil, &lfsherrors.SpawnError{Argv: req.Argv, Cause: ErrEmptyArgv}
	}

	// No shell wrapping: argv[0] goes through PATH lookup only when it has no slash
	cmd := exec.Command(req.Argv[0], req.Argv[1:]...)
	cmd.Dir = req.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := ctx.Err(); err != nil {
		return nil, &lfsherrors.SpawnError{Argv: req.Argv, Cause: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &lfsherrors.SpawnError{Argv: req.Argv, Cause: err}
	}

	logger := e.logger()
	pid := cmd.Process.Pid
	logger.Debug("spawned child", slog.String(log.CommandKey, req.Argv[0]), slog.Int(log.PIDKey, pid))

	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// Copying stdio failed; the child has still been reaped
		logger.Warn("wait failed", slog.Int(log.PIDKey, pid), log.Error(waitErr))
	}

	res := resultFrom(pid, cmd.ProcessState)
	logger.Debug("child reaped",
		slog.Int(log.PIDKey, pid),
		slog.Int(log.ExitCodeKey, res.ExitCode),
		slog.Bool("signaled", res.Signaled))
	return res, nil
}

// RunAction implements Runner.
func (e *Executor) RunAction(ctx context.Context, path, action string) (*Result, error) {
	return e.Run(ctx, Request{Argv: []string{path, action}})
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger == nil {
		return log.Discard()
	}
	return e.Logger
}

func resultFrom(pid int, state *os.ProcessState) *Result {
	res := &Result{PID: pid}
	if state == nil {
		return res
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		res.Exited = state.Exited()
		res.ExitCode = state.ExitCode()
		return res
	}
	switch {
	case ws.Exited():
		res.Exited = true
		res.ExitCode = ws.ExitStatus()
	case ws.Signaled():
		res.Signaled = true
		res.Signal = ws.Signal()
		res.ExitCode = -1
	}
	return res
}
