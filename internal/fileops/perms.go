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

package fileops

import (
	"os"
	"os/user"
	"strconv"

	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// Keep is the owner or group argument that leaves the current id unchanged.
const Keep = "-"

// ParseMode parses an octal permission string such as "644" or "0755".
// Only permission, setuid, setgid and sticky bits are accepted.
func ParseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > 07777 {
		return 0, &lfsherrors.ValidationError{Field: "modo", Message: "se esperaba un modo octal como 644: " + s}
	}

	mode := os.FileMode(v & 0777)
	if v&04000 != 0 {
		mode |= os.ModeSetuid
	}
	if v&02000 != 0 {
		mode |= os.ModeSetgid
	}
	if v&01000 != 0 {
		mode |= os.ModeSticky
	}
	return mode, nil
}

// Chmod sets the mode of path.
func Chmod(path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return &lfsherrors.ResourceError{Op: "cambiar permisos", Path: path, Cause: unwrapPath(err)}
	}
	return nil
}

// ResolveOwner maps user and group names (or numeric ids) to ids. Keep maps
// to -1, which Chown leaves unchanged.
func ResolveOwner(owner, group string) (uid, gid int, err error) {
	uid, gid = -1, -1

	if owner != Keep {
		u, err := user.Lookup(owner)
		if err != nil {
			if u, err = user.LookupId(owner); err != nil {
				return 0, 0, &lfsherrors.NotFoundError{Resource: "usuario", ID: owner}
			}
		}
		if uid, err = strconv.Atoi(u.Uid); err != nil {
			return 0, 0, &lfsherrors.ValidationError{Field: "usuario", Message: describe(owner, err)}
		}
	}

	if group != Keep {
		g, err := user.LookupGroup(group)
		if err != nil {
			if g, err = user.LookupGroupId(group); err != nil {
				return 0, 0, &lfsherrors.NotFoundError{Resource: "grupo", ID: group}
			}
		}
		if gid, err = strconv.Atoi(g.Gid); err != nil {
			return 0, 0, &lfsherrors.ValidationError{Field: "grupo", Message: describe(group, err)}
		}
	}

	return uid, gid, nil
}

// Chown changes the owner and group of path. An id of -1 is left unchanged.
func Chown(path string, uid, gid int) error {
	if err := os.Chown(path, uid, gid); err != nil {
		return &lfsherrors.ResourceError{Op: "cambiar propietario/grupo", Path: path, Cause: unwrapPath(err)}
	}
	return nil
}
