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

package errors

import (
	"fmt"
	"strings"
)

// UsageError reports a command invoked with the wrong number of arguments.
// It is recovered locally: the usage string is shown and nothing else happens.
type UsageError struct {
	// Command is the command name as typed by the operator
	Command string

	// Usage is the synopsis shown to the operator
	Usage string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return "Uso: " + e.Usage
}

// ErrorType implements ErrorClassifier.
func (e *UsageError) ErrorType() string { return "usage" }

// ResourceError represents a file, directory, log or identity that could not
// be opened, created or resolved. It aborts only the current command.
type ResourceError struct {
	// Op is the operation that failed (e.g., "copiar", "abrir directorio")
	Op string

	// Path is the resource involved, if any
	Path string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ResourceError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ResourceError) ErrorType() string { return "resource" }

// SpawnError represents a child process that could not be created or could
// not exec its image. The interpreter itself keeps running.
type SpawnError struct {
	// Argv is the argument vector that was requested
	Argv []string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("no se pudo ejecutar %q: %v", strings.Join(e.Argv, " "), e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SpawnError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *SpawnError) ErrorType() string { return "spawn" }

// SignalError represents a failed signal delivery, such as stopping a
// process that no longer exists or belongs to another user.
type SignalError struct {
	// PID is the target process id
	PID int

	// Signal is the signal name (e.g., "SIGTERM")
	Signal string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *SignalError) Error() string {
	return fmt.Sprintf("no se pudo enviar %s al proceso %d: %v", e.Signal, e.PID, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SignalError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *SignalError) ErrorType() string { return "signal" }

// ValidationError represents operator input that is well-formed in arity
// but not in content, like a malformed schedule or IP list.
type ValidationError struct {
	// Field identifies which input failed validation
	Field string

	// Message is the human-readable error description
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("valor inválido para %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("valor inválido: %s", e.Message)
}

// ErrorType implements ErrorClassifier.
func (e *ValidationError) ErrorType() string { return "validation" }

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "demonio", "usuario")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Resource, e.ID)
}

// ErrorType implements ErrorClassifier.
func (e *NotFoundError) ErrorType() string { return "not_found" }

// ConfigError represents configuration problems.
// Use this for configuration file errors, missing settings, or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "daemons.dir")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "config error: " + e.Reason
	if e.Key != "" {
		msg = fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ConfigError) ErrorType() string { return "config" }
