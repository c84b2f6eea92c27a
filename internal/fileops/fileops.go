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

// Package fileops wraps the filesystem operations behind the interpreter's
// file commands. Paths are used as given; callers resolve relative paths
// against the session directory first.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

const (
	// CopyMode is the mode of files created by Copy.
	CopyMode os.FileMode = 0644
	// DirMode is the mode of directories created by Mkdir.
	DirMode os.FileMode = 0755
)

// ErrSameFile is returned when source and destination are the same file.
var ErrSameFile = errors.New("origen y destino son el mismo archivo")

// Copy writes the bytes of src to dst, creating or truncating dst.
func Copy(src, dst string) error {
	return copyFile(src, dst, CopyMode)
}

func copyFile(src, dst string, mode os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return &lfsherrors.ResourceError{Op: "abrir", Path: src, Cause: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &lfsherrors.ResourceError{Op: "abrir", Path: src, Cause: err}
	}
	if info.IsDir() {
		return &lfsherrors.ResourceError{Op: "copiar", Path: src, Cause: unix.EISDIR}
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return &lfsherrors.ResourceError{Op: "copiar", Path: dst, Cause: ErrSameFile}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return &lfsherrors.ResourceError{Op: "crear", Path: dst, Cause: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &lfsherrors.ResourceError{Op: "cerrar", Path: dst, Cause: cerr}
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return &lfsherrors.ResourceError{Op: "copiar", Path: dst, Cause: err}
	}
	return nil
}

// Rename renames src to dst within one filesystem.
func Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return &lfsherrors.ResourceError{Op: "renombrar", Path: src, Cause: unwrapLink(err)}
	}
	return nil
}

// Move renames src to dst. When they are on different filesystems a regular
// file is copied with its mode and the source removed.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return &lfsherrors.ResourceError{Op: "mover", Path: src, Cause: unwrapLink(err)}
	}

	info, statErr := os.Stat(src)
	if statErr != nil {
		return &lfsherrors.ResourceError{Op: "mover", Path: src, Cause: statErr}
	}
	if !info.Mode().IsRegular() {
		return &lfsherrors.ResourceError{Op: "mover", Path: src, Cause: unix.EXDEV}
	}
	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return &lfsherrors.ResourceError{Op: "mover", Path: dst, Cause: err}
	}
	if err := os.Remove(src); err != nil {
		return &lfsherrors.ResourceError{Op: "mover", Path: src, Cause: err}
	}
	return nil
}

// List returns the entry names of dir sorted by name. The "." and ".."
// entries are not included.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &lfsherrors.ResourceError{Op: "abrir el directorio", Path: dir, Cause: unwrapPath(err)}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Mkdir creates a single directory with DirMode, subject to the umask.
func Mkdir(dir string) error {
	if err := os.Mkdir(dir, DirMode); err != nil {
		return &lfsherrors.ResourceError{Op: "crear el directorio", Path: dir, Cause: unwrapPath(err)}
	}
	return nil
}

// CheckDir verifies that dir is a directory the caller may enter.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &lfsherrors.ResourceError{Op: "cambiar de directorio", Path: dir, Cause: unwrapPath(err)}
	}
	if !info.IsDir() {
		return &lfsherrors.ResourceError{Op: "cambiar de directorio", Path: dir, Cause: unix.ENOTDIR}
	}
	if err := unix.Access(dir, unix.X_OK); err != nil {
		return &lfsherrors.ResourceError{Op: "cambiar de directorio", Path: dir, Cause: err}
	}
	return nil
}

// Realpath returns p with every symlink and ".." resolved in the order the
// kernel resolves them.
func Realpath(p string) (string, error) {
	real, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", &lfsherrors.ResourceError{Op: "resolver", Path: p, Cause: unwrapPath(err)}
	}
	return real, nil
}

// unwrapPath drops the *os.PathError layer, whose path ResourceError
// already carries.
func unwrapPath(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

func unwrapLink(err error) error {
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}

// describe renders an error the way perror would, "what: why".
func describe(what string, err error) string {
	return fmt.Sprintf("%s: %v", what, err)
}
