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

package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

var (
	// ErrProcessNotRunning is returned when the target process does not exist.
	ErrProcessNotRunning = errors.New("process not running")

	// ErrPermissionDenied is returned when the caller may not signal the process.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnknownSignal is returned by ParseSignal for names it cannot resolve.
	ErrUnknownSignal = errors.New("unknown signal")
)

// SendSignal delivers sig to pid. Failures come back as *errors.SignalError
// wrapping ErrProcessNotRunning (ESRCH), ErrPermissionDenied (EPERM), or the
// raw errno for anything else.
func SendSignal(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		// kill(2) treats 0 and negatives as process groups
		return &lfsherrors.SignalError{PID: pid, Signal: SignalName(sig), Cause: ErrInvalidPID}
	}

	err := unix.Kill(pid, sig)
	if err == nil {
		return nil
	}

	cause := err
	switch {
	case errors.Is(err, unix.ESRCH):
		cause = fmt.Errorf("%w: %v", ErrProcessNotRunning, err)
	case errors.Is(err, unix.EPERM):
		cause = fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	return &lfsherrors.SignalError{PID: pid, Signal: SignalName(sig), Cause: cause}
}

// SignalName returns the conventional name of sig, e.g. "SIGTERM".
func SignalName(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return name
	}
	return fmt.Sprintf("signal %d", int(sig))
}

// ParseSignal resolves "TERM", "SIGTERM" or "sigterm" to a signal.
func ParseSignal(name string) (syscall.Signal, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}
	sig := unix.SignalNum(upper)
	if sig == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSignal, name)
	}
	return sig, nil
}
