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
	"errors"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"github.com/tombee/lfshell/internal/executor"
	"github.com/tombee/lfshell/internal/log"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// ErrExit is returned by Dispatch when the session should end.
var ErrExit = errors.New("exit")

// Unbounded marks a command without a maximum argument count.
const Unbounded = -1

// HandlerFunc runs a built-in command. argv[0] is the command name.
type HandlerFunc func(ctx context.Context, env *Env, argv []string) error

// Command is an entry of the built-in command table. Argument counts include
// the command name.
type Command struct {
	Name    string
	MinArgs int
	MaxArgs int
	Usage   string
	// Failure prefixes error reports, like "Error al copiar el archivo".
	Failure string
	Run     HandlerFunc
}

func (c *Command) accepts(argc int) bool {
	return argc >= c.MinArgs && (c.MaxArgs == Unbounded || argc <= c.MaxArgs)
}

// Dispatcher routes input lines to built-in commands or external programs.
type Dispatcher struct {
	commands map[string]*Command
	maxArgs  int
	logger   *slog.Logger
}

// NewDispatcher builds the command table. maxArgs caps tokens per line.
func NewDispatcher(maxArgs int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Discard()
	}
	d := &Dispatcher{
		commands: make(map[string]*Command),
		maxArgs:  maxArgs,
		logger:   log.WithComponent(logger, "dispatcher"),
	}
	for _, c := range builtins() {
		d.commands[c.Name] = c
	}
	return d
}

// Lookup returns the built-in command called name.
func (d *Dispatcher) Lookup(name string) (*Command, bool) {
	c, ok := d.commands[name]
	return c, ok
}

// Commands returns the built-in commands sorted by name.
func (d *Dispatcher) Commands() []*Command {
	out := make([]*Command, 0, len(d.commands))
	for _, c := range d.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch records line in the history log and executes it. Failures are
// reported to the user and the error log before they are returned, so
// callers only need to act on ErrExit.
func (d *Dispatcher) Dispatch(ctx context.Context, env *Env, line string) error {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	env.Trail.Command(line)

	argv := Tokenize(line, d.maxArgs)
	if len(argv) == 0 {
		return nil
	}
	log.Trace(d.logger, "tokenized line", slog.Any("argv", argv))

	cmd, ok := d.commands[argv[0]]
	if !ok {
		return d.runExternal(ctx, env, argv)
	}
	if !cmd.accepts(len(argv)) {
		d.logger.Debug("arity mismatch", slog.String(log.CommandKey, cmd.Name), slog.Int("argc", len(argv)))
		env.Print("Uso: " + cmd.Usage)
		return nil
	}

	d.logger.Debug("dispatching builtin", slog.String(log.CommandKey, cmd.Name))
	err := cmd.Run(ctx, env, argv)
	if err == nil {
		return nil
	}
	if lfsherrors.Is(err, ErrExit) {
		return ErrExit
	}

	// Usage errors are only shown; every other category reaches the error log
	kind := lfsherrors.Type(err)
	d.logger.Debug("builtin failed",
		slog.String(log.CommandKey, cmd.Name),
		slog.String("error_type", kind),
		log.Error(err))
	if kind == "usage" {
		env.Print(err.Error())
		return err
	}
	env.Fail(cmd.Failure, err)
	return err
}

func (d *Dispatcher) runExternal(ctx context.Context, env *Env, argv []string) error {
	if env.Runner == nil {
		err := lfsherrors.New("no runner configured")
		env.Fail("Error al ejecutar el comando", err)
		return err
	}

	d.logger.Debug("running external command", slog.String(log.CommandKey, argv[0]))
	res, err := env.Runner.Run(ctx, executor.Request{Argv: argv, Dir: env.Dir})
	if err != nil {
		if lfsherrors.Is(err, exec.ErrNotFound) {
			env.Fail("Comando desconocido", lfsherrors.New(argv[0]))
		} else {
			env.Fail("Error al ejecutar el comando", err)
		}
		return err
	}

	// A failing exit status belongs to the program; the shell only notes it
	d.logger.Debug("external command finished",
		slog.String(log.CommandKey, argv[0]),
		slog.Int(log.PIDKey, res.PID),
		slog.Int(log.ExitCodeKey, res.ExitCode),
		slog.Bool("signaled", res.Signaled))
	return nil
}
