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

package errors_test

import (
	"errors"
	"strings"
	"testing"

	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		original := errors.New("original error")
		wrapped := lfsherrors.Wrap(original, "additional context")

		if wrapped == nil {
			t.Fatal("Wrap should not return nil for non-nil error")
		}

		msg := wrapped.Error()
		if !strings.Contains(msg, "additional context") {
			t.Errorf("wrapped error should contain context, got: %s", msg)
		}
		if !strings.Contains(msg, "original error") {
			t.Errorf("wrapped error should contain original message, got: %s", msg)
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if wrapped := lfsherrors.Wrap(nil, "context"); wrapped != nil {
			t.Errorf("Wrap(nil, _) should return nil, got: %v", wrapped)
		}
	})

	t.Run("preserves error chain", func(t *testing.T) {
		original := errors.New("root cause")
		wrapped := lfsherrors.Wrap(original, "context")

		if !lfsherrors.Is(wrapped, original) {
			t.Error("wrapped error should match original with Is")
		}
	})
}

func TestWrapf(t *testing.T) {
	original := errors.New("denied")
	wrapped := lfsherrors.Wrapf(original, "opening %s", "historial.log")

	if got, want := wrapped.Error(), "opening historial.log: denied"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if lfsherrors.Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestAs(t *testing.T) {
	err := lfsherrors.Wrap(&lfsherrors.NotFoundError{Resource: "demonio", ID: "sshd"}, "iniciar")

	var notFound *lfsherrors.NotFoundError
	if !lfsherrors.As(err, &notFound) {
		t.Fatal("As should find NotFoundError in chain")
	}
	if notFound.ID != "sshd" {
		t.Errorf("NotFoundError.ID = %q, want sshd", notFound.ID)
	}
}
