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
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tombee/lfshell/internal/accounts"
	"github.com/tombee/lfshell/internal/audit"
	"github.com/tombee/lfshell/internal/cli/format"
	"github.com/tombee/lfshell/internal/executor"
	"github.com/tombee/lfshell/internal/log"
	"github.com/tombee/lfshell/internal/registry"
)

// Daemons is the daemon lifecycle surface used by the demonio command.
type Daemons interface {
	List() ([]string, error)
	Start(ctx context.Context, name string) error
	Stop(name string) error
	Status(name string) (*registry.Daemon, error)
}

// Accounts is the account surface used by usuario, clave and sesion.
type Accounts interface {
	Create(ctx context.Context, p accounts.Profile) error
	ChangePassword(ctx context.Context, name, dir string) error
	ValidateSession(name, action string) error
}

// Env is the state a session shares with every command it runs.
type Env struct {
	// Dir is the session working directory. Commands resolve relative
	// paths against it and external programs start in it. The process
	// working directory is never changed.
	Dir string

	Stdout io.Writer
	Stderr io.Writer

	Trail    *audit.Trail
	Runner   executor.Runner
	Daemons  Daemons
	Accounts Accounts
	Styler   *format.Styler
	Logger   *slog.Logger
}

// Resolve returns p relative to Dir. The path is not cleaned: ".." after a
// symlink must name the link target's parent, as it does for open(2) and for
// external programs started in Dir.
func (e *Env) Resolve(p string) string {
	if filepath.IsAbs(p) || e.Dir == "" {
		return p
	}
	if strings.HasSuffix(e.Dir, string(filepath.Separator)) {
		return e.Dir + p
	}
	return e.Dir + string(filepath.Separator) + p
}

// Print writes one line of plain command output.
func (e *Env) Print(line string) {
	fmt.Fprintln(e.Stdout, line)
}

// Notify prints a success notice and records it in the history log.
func (e *Env) Notify(msg string) {
	fmt.Fprintln(e.Stdout, e.Styler.RenderOK(msg))
	e.Trail.Notice(msg)
}

// Record adds a notice to the history log without printing it.
func (e *Env) Record(msg string) {
	e.Trail.Notice(msg)
}

// Fail reports a failure on stderr and records it in the error log.
func (e *Env) Fail(what string, err error) {
	msg := fmt.Sprintf("%s: %v", what, err)
	fmt.Fprintln(e.Stderr, e.Styler.RenderError(msg))
	e.Trail.Failure(msg)
	e.logger().Debug("command failed", slog.String("what", what), log.Error(err))
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return log.Discard()
	}
	return e.Logger
}
