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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tombee/lfshell/internal/log"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// DefaultPrompt is printed before every read.
const DefaultPrompt = "lfs-shell> "

// InterruptGuard keeps keyboard interrupts from ending the session.
// Prompting is called with the rendered prompt before each read and with ""
// once the read returns, so an interrupt at the prompt can redraw it.
type InterruptGuard interface {
	Install()
	Stop()
	Prompting(prompt string)
}

// Interpreter reads lines from In and dispatches them until end of input or
// the exit command.
type Interpreter struct {
	Dispatcher *Dispatcher
	Env        *Env
	In         io.Reader
	Prompt     string
	Signals    InterruptGuard
	Logger     *slog.Logger

	newSessionID func() string
}

// NewInterpreter creates an interpreter reading from in.
func NewInterpreter(d *Dispatcher, env *Env, in io.Reader, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Interpreter{
		Dispatcher:   d,
		Env:          env,
		In:           in,
		Prompt:       DefaultPrompt,
		Logger:       logger,
		newSessionID: uuid.NewString,
	}
}

// Run executes the session. It returns nil when input ends or exit is
// entered, and an error only when input cannot be read.
func (i *Interpreter) Run(ctx context.Context) error {
	newID := i.newSessionID
	if newID == nil {
		newID = uuid.NewString
	}
	id := newID()
	logger := log.WithSession(i.logger(), id)

	if i.Signals != nil {
		i.Signals.Install()
		defer i.Signals.Stop()
	}

	i.Env.Record(fmt.Sprintf("Sesion iniciada (%s)", id))
	logger.Debug("session started")
	defer func() {
		i.Env.Record(fmt.Sprintf("Sesion finalizada (%s)", id))
		logger.Debug("session ended")
	}()

	reader := bufio.NewReader(i.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		prompt := i.Env.Styler.RenderPrompt(i.Prompt)
		fmt.Fprint(i.Env.Stdout, prompt)

		i.prompting(prompt)
		line, readErr := reader.ReadString('\n')
		i.prompting("")
		if readErr != nil && !lfsherrors.Is(readErr, io.EOF) {
			return lfsherrors.Wrap(readErr, "input error")
		}

		// A final line without a terminator is still a command
		if line != "" {
			if err := i.Dispatcher.Dispatch(ctx, i.Env, line); lfsherrors.Is(err, ErrExit) {
				return nil
			}
		}

		if readErr != nil {
			return nil
		}
	}
}

func (i *Interpreter) prompting(prompt string) {
	if i.Signals != nil {
		i.Signals.Prompting(prompt)
	}
}

func (i *Interpreter) logger() *slog.Logger {
	if i.Logger == nil {
		return log.Discard()
	}
	return i.Logger
}
