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

// Package executortest provides a scripted executor.Runner for tests.
package executortest

import (
	"context"
	"sync"

	"github.com/tombee/lfshell/internal/executor"
)

// Recorder is a fake executor.Runner. It records every request and answers
// with the scripted result for argv[0], or a clean exit when none is set.
type Recorder struct {
	mu       sync.Mutex
	requests []executor.Request
	results  map[string]*executor.Result
	errs     map[string]error
	nextPID  int
}

// NewRecorder returns a recorder with no scripted outcomes.
func NewRecorder() *Recorder {
	return &Recorder{
		results: make(map[string]*executor.Result),
		errs:    make(map[string]error),
		nextPID: 1000,
	}
}

// SetResult scripts the outcome for programs named prog.
func (r *Recorder) SetResult(prog string, res executor.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[prog] = &res
}

// SetError scripts a spawn failure for programs named prog.
func (r *Recorder) SetError(prog string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[prog] = err
}

// Run implements executor.Runner.
func (r *Recorder) Run(ctx context.Context, req executor.Request) (*executor.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.Argv = append([]string(nil), req.Argv...)
	r.requests = append(r.requests, req)

	var prog string
	if len(req.Argv) > 0 {
		prog = req.Argv[0]
	}
	if err := r.errs[prog]; err != nil {
		return nil, err
	}

	r.nextPID++
	if res, ok := r.results[prog]; ok {
		out := *res
		out.PID = r.nextPID
		return &out, nil
	}
	return &executor.Result{PID: r.nextPID, Exited: true}, nil
}

// RunAction implements executor.Runner.
func (r *Recorder) RunAction(ctx context.Context, path, action string) (*executor.Result, error) {
	return r.Run(ctx, executor.Request{Argv: []string{path, action}})
}

// Requests returns the recorded requests in call order.
func (r *Recorder) Requests() []executor.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]executor.Request(nil), r.requests...)
}

// Argvs returns the argument vectors of the recorded requests.
func (r *Recorder) Argvs() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req.Argv)
	}
	return out
}
