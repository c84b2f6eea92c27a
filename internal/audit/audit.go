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

// Package audit appends timestamped records of commands and failures to
// durable, append-only logs.
package audit

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// TimestampLayout is the fixed, second-granularity record timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Sink accepts audit payloads. Every call is an independent append.
type Sink interface {
	Append(payload string) error
}

// File is a Sink backed by a text file. The file is opened for each record
// and closed before Append returns; nothing is buffered in memory.
type File struct {
	path string
	now  func() time.Time
}

// NewFile creates a file sink for the given path. The file and its parent
// directory are created on first append.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

// Path returns the log path.
func (f *File) Path() string {
	return f.path
}

// Append writes "<YYYY-MM-DD HH:MM:SS>: payload" as one line.
func (f *File) Append(payload string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return lfsherrors.Wrap(err, "failed to create log directory")
	}

	out, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return lfsherrors.Wrapf(err, "failed to open log %s", f.path)
	}
	defer out.Close()

	if _, err := io.WriteString(out, Format(f.now(), payload)); err != nil {
		return lfsherrors.Wrapf(err, "failed to write log %s", f.path)
	}
	return nil
}

// Format renders one record, newline included. Embedded line breaks in the
// payload are flattened so one call never yields more than one line.
func Format(ts time.Time, payload string) string {
	payload = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(payload)
	return ts.Format(TimestampLayout) + ": " + payload + "\n"
}

// Memory is an in-process Sink that keeps payloads in order.
type Memory struct {
	mu      sync.Mutex
	records []string
	err     error
}

// NewMemory returns an empty memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Append records payload, or returns the configured failure.
func (m *Memory) Append(payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, payload)
	return nil
}

// FailWith makes every subsequent Append return err (nil restores it).
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Records returns a copy of the recorded payloads.
func (m *Memory) Records() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.records...)
}
