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

package audit

import (
	"fmt"
	"io"
)

// Trail routes records to the history and error logs. The two logs are
// independent: nothing ties a history record to an error record.
type Trail struct {
	History Sink
	Errors  Sink

	// Report receives sink failures. They are never returned to callers, so
	// an unwritable log cannot abort the command being audited.
	Report io.Writer
}

// NewTrail builds a trail over two sinks, reporting sink failures to report.
func NewTrail(history, errors Sink, report io.Writer) *Trail {
	return &Trail{History: history, Errors: errors, Report: report}
}

// Command records a raw input line in the history log.
func (t *Trail) Command(line string) {
	t.append(t.History, line)
}

// Notice records a success notice in the history log.
func (t *Trail) Notice(msg string) {
	t.append(t.History, msg)
}

// Failure records a failure notice in the error log.
func (t *Trail) Failure(msg string) {
	t.append(t.Errors, msg)
}

func (t *Trail) append(sink Sink, payload string) {
	if t == nil || sink == nil {
		return
	}
	if err := sink.Append(payload); err != nil && t.Report != nil {
		fmt.Fprintf(t.Report, "Error al escribir el registro: %v\n", err)
	}
}
