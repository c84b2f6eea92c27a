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

/*
Package lifecycle reads daemon PID files and delivers signals to the
processes they name.

# PID Files

A PID file lives at <run-dir>/<name>.pid and its first line is the decimal
process id. Daemons author their own PID files; the interpreter only reads
them:

	manager := lifecycle.NewPIDFileManager("/run/sshd.pid")
	pid, err := manager.Read()
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, lifecycle.ErrInvalidPID) {
	    // not running
	}

A readable, parseable PID file is the only evidence of a running daemon.
A stale file therefore reads as running.

# Signals

SendSignal classifies delivery failures so callers can tell a vanished
process from one they are not allowed to signal:

	err := lifecycle.SendSignal(pid, unix.SIGTERM)
	switch {
	case errors.Is(err, lifecycle.ErrProcessNotRunning):
	case errors.Is(err, lifecycle.ErrPermissionDenied):
	}
*/
package lifecycle
