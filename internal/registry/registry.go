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

// Package registry resolves named daemons to bootscripts in a directory and
// starts, stops and inspects them.
//
// A daemon is started by running "<dir>/<name> start" and stopped by
// signalling the PID recorded in "<run-dir>/<name>.pid". Nothing is cached:
// every call looks at the filesystem again.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sys/unix"

	"github.com/tombee/lfshell/internal/executor"
	"github.com/tombee/lfshell/internal/lifecycle"
	"github.com/tombee/lfshell/internal/log"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

var (
	// ErrNotExecutable is returned when a daemon entry exists but cannot be run.
	ErrNotExecutable = errors.New("no es un ejecutable")

	// ErrNotRunning is returned when a daemon has no usable PID file.
	ErrNotRunning = errors.New("no está en ejecución")
)

// StartAction is the argument bootscripts receive on start.
const StartAction = "start"

// SignalFunc delivers a signal to a process.
type SignalFunc func(pid int, sig syscall.Signal) error

// Daemon describes a daemon as resolved at call time.
type Daemon struct {
	Name    string
	Path    string
	PIDFile string
	PID     int
	Running bool
	// Command is the command line of PID when it can be read. It is
	// informational and does not affect Running.
	Command string
}

// Registry manages the daemons found in Dir.
type Registry struct {
	// Dir holds one executable per daemon.
	Dir string
	// RunDir holds "<name>.pid" files.
	RunDir string
	// Ignore lists doublestar patterns of entries that are not daemons.
	Ignore []string
	// StopSignal is sent by Stop. Zero means SIGTERM.
	StopSignal syscall.Signal

	Runner executor.Runner
	Signal SignalFunc
	Logger *slog.Logger
}

// New creates a registry that signals processes with lifecycle.SendSignal.
func New(dir, runDir string, runner executor.Runner, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = log.Discard()
	}
	return &Registry{
		Dir:        dir,
		RunDir:     runDir,
		StopSignal: syscall.SIGTERM,
		Runner:     runner,
		Signal:     lifecycle.SendSignal,
		Logger:     log.WithComponent(logger, "registry"),
	}
}

// List returns the names of the regular, executable, non-hidden entries of
// Dir in directory order.
func (r *Registry) List() ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, &lfsherrors.ResourceError{Op: "listar demonios", Path: r.Dir, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || r.ignored(name) {
			continue
		}
		if err := checkExecutable(filepath.Join(r.Dir, name)); err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Start runs the daemon's bootscript with the start action and waits for it.
// Nothing is spawned when the daemon is missing or not executable.
func (r *Registry) Start(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := r.path(name)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &lfsherrors.NotFoundError{Resource: "demonio", ID: name}
		}
		return &lfsherrors.ResourceError{Op: "iniciar", Path: path, Cause: err}
	}
	if err := checkExecutable(path); err != nil {
		return &lfsherrors.ResourceError{Op: "iniciar", Path: path, Cause: err}
	}

	r.logger().Debug("starting daemon", slog.String(log.DaemonKey, name))
	res, err := r.Runner.RunAction(ctx, path, StartAction)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return lfsherrors.Wrapf(err, "demonio %s", name)
	}
	return nil
}

// Stop signals the PID recorded for the daemon. No signal is sent when the
// PID file is missing or does not hold a valid PID.
func (r *Registry) Stop(name string) error {
	d, err := r.Status(name)
	if err != nil {
		return err
	}
	if !d.Running {
		return lfsherrors.Wrapf(ErrNotRunning, "demonio %s", name)
	}

	sig := r.StopSignal
	if sig == 0 {
		sig = syscall.SIGTERM
	}
	r.logger().Debug("stopping daemon",
		slog.String(log.DaemonKey, name),
		slog.Int(log.PIDKey, d.PID),
		slog.String("signal", lifecycle.SignalName(sig)))

	send := r.Signal
	if send == nil {
		send = lifecycle.SendSignal
	}
	return send(d.PID, sig)
}

// Status reports whether the daemon has a readable, valid PID file. The
// process itself is not probed, so a stale PID file reads as running.
func (r *Registry) Status(name string) (*Daemon, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	d := &Daemon{
		Name:    name,
		Path:    r.path(name),
		PIDFile: lifecycle.PIDFilePath(r.RunDir, name),
	}

	pid, err := lifecycle.NewPIDFileManager(d.PIDFile).Read()
	if err != nil {
		r.logger().Debug("no usable pid file", slog.String(log.DaemonKey, name), log.Error(err))
		return d, nil
	}
	d.PID = pid
	d.Running = true
	if cmd, err := lifecycle.ProcessCommand(pid); err == nil {
		d.Command = cmd
	}
	return d, nil
}

// ValidateName rejects names that would resolve outside the daemon directory.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &lfsherrors.ValidationError{Field: "demonio", Message: "nombre vacío"}
	case name == "." || name == "..", strings.HasPrefix(name, "."):
		return &lfsherrors.ValidationError{Field: "demonio", Message: fmt.Sprintf("nombre no permitido: %s", name)}
	case strings.ContainsRune(name, filepath.Separator):
		return &lfsherrors.ValidationError{Field: "demonio", Message: fmt.Sprintf("el nombre no puede contener '/': %s", name)}
	}
	return nil
}

func (r *Registry) path(name string) string {
	return filepath.Join(r.Dir, name)
}

func (r *Registry) ignored(name string) bool {
	for _, pattern := range r.Ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (r *Registry) logger() *slog.Logger {
	if r.Logger == nil {
		return log.Discard()
	}
	return r.Logger
}

// checkExecutable requires a regular file the caller may execute.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotExecutable
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("%w: %v", ErrNotExecutable, err)
	}
	return nil
}
