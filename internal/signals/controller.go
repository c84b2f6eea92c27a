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

// Package signals keeps keyboard interrupts from terminating the
// interpreter.
package signals

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/tombee/lfshell/internal/cli/format"
	"github.com/tombee/lfshell/internal/log"
)

// Notice is printed for every interrupt the interpreter absorbs.
const Notice = "Use 'exit' para salir del shell."

// Controller observes SIGINT while installed. Observing the signal replaces
// its default action, so the interpreter survives Ctrl-C. The runtime
// installs the handler with SA_RESTART, so a blocked prompt read resumes.
//
// Children are not affected: exec resets caught signals to their defaults,
// and the terminal delivers Ctrl-C to the whole foreground process group.
type Controller struct {
	out    io.Writer
	logger *slog.Logger

	// Styler renders the notice. Nil prints plain text.
	Styler *format.Styler

	mu     sync.Mutex
	sigCh  chan os.Signal
	done   chan struct{}
	prompt string
	wg     sync.WaitGroup
	count  atomic.Int64
}

// NewController creates a controller that prints its notice to out.
func NewController(out io.Writer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = log.Discard()
	}
	return &Controller{out: out, logger: log.WithComponent(logger, "signals")}
}

// Install starts observing SIGINT. Installing twice is a no-op.
func (c *Controller) Install() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sigCh != nil {
		return
	}

	c.sigCh = make(chan os.Signal, 1)
	c.done = make(chan struct{})
	signal.Notify(c.sigCh, os.Interrupt)

	c.wg.Add(1)
	go c.loop(c.sigCh, c.done)
}

// Stop restores the default SIGINT action and waits for the observer to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.sigCh == nil {
		c.mu.Unlock()
		return
	}
	signal.Stop(c.sigCh)
	close(c.done)
	c.sigCh, c.done = nil, nil
	c.mu.Unlock()

	c.wg.Wait()
}

// Prompting sets the prompt to redraw after the notice. An empty prompt
// means no read is pending, as while a child program runs.
func (c *Controller) Prompting(prompt string) {
	c.mu.Lock()
	c.prompt = prompt
	c.mu.Unlock()
}

// Interrupts returns how many interrupts have been observed.
func (c *Controller) Interrupts() int64 {
	return c.count.Load()
}

func (c *Controller) loop(sigCh <-chan os.Signal, done <-chan struct{}) {
	defer c.wg.Done()
	for {
		select {
		case sig := <-sigCh:
			c.count.Add(1)
			c.logger.Debug("interrupt absorbed", slog.String("signal", sig.String()))
			c.notify()
		case <-done:
			return
		}
	}
}

func (c *Controller) notify() {
	if c.out == nil {
		return
	}
	c.mu.Lock()
	prompt := c.prompt
	c.mu.Unlock()

	fmt.Fprintf(c.out, "\n%s\n%s", c.Styler.RenderMuted(Notice), prompt)
}
