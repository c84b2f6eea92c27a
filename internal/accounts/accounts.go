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

// Package accounts creates operating-system accounts with an access profile,
// delegates password changes and validates session actions.
package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tombee/lfshell/internal/executor"
	"github.com/tombee/lfshell/internal/log"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// Session actions accepted by ValidateSession.
const (
	SessionStart = "iniciar"
	SessionEnd   = "cerrar"
)

var (
	namePattern     = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
	schedulePattern = regexp.MustCompile(`^(\d{2}:\d{2})-(\d{2}:\d{2})$`)
)

// Profile is the access profile recorded for a new account.
type Profile struct {
	Name     string
	Schedule string
	// IPs is a comma-separated list of addresses or CIDR prefixes.
	IPs string
}

// Validate checks the name, schedule and address list.
func (p Profile) Validate() error {
	if !namePattern.MatchString(p.Name) {
		return &lfsherrors.ValidationError{Field: "nombre", Message: "debe coincidir con " + namePattern.String()}
	}
	if err := ValidateSchedule(p.Schedule); err != nil {
		return err
	}
	if _, err := ParseAllowlist(p.IPs); err != nil {
		return err
	}
	return nil
}

// Record renders the profile as it is stored in the profiles file.
func (p Profile) Record() string {
	return fmt.Sprintf("Usuario: %s\nHorario: %s\nIPs: %s\n---\n", p.Name, p.Schedule, p.IPs)
}

// ValidateSchedule accepts "HH:MM-HH:MM" with valid 24-hour times.
func ValidateSchedule(s string) error {
	m := schedulePattern.FindStringSubmatch(s)
	if m == nil {
		return &lfsherrors.ValidationError{Field: "horario", Message: "se esperaba HH:MM-HH:MM: " + s}
	}
	for _, hm := range m[1:] {
		if _, err := time.Parse("15:04", hm); err != nil {
			return &lfsherrors.ValidationError{Field: "horario", Message: "hora inválida: " + hm}
		}
	}
	return nil
}

// ParseAllowlist parses a comma-separated list of addresses or prefixes.
func ParseAllowlist(s string) ([]netip.Prefix, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &lfsherrors.ValidationError{Field: "ips", Message: "lista vacía"}
	}

	var out []netip.Prefix
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, &lfsherrors.ValidationError{Field: "ips", Message: "prefijo inválido: " + item}
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, &lfsherrors.ValidationError{Field: "ips", Message: "dirección inválida: " + item}
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Manager performs account operations through external utilities.
type Manager struct {
	Runner executor.Runner
	// ProfilesFile receives one record per created account.
	ProfilesFile string
	// UserAdd is the account creation command; the name is appended.
	UserAdd []string
	// Passwd is the password change utility.
	Passwd string
	// LookupUser reports whether a user exists. Defaults to os/user.
	LookupUser func(name string) error
	Logger     *slog.Logger
}

// NewManager creates a manager with the default utilities.
func NewManager(runner executor.Runner, profilesFile string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{
		Runner:       runner,
		ProfilesFile: profilesFile,
		UserAdd:      []string{"useradd", "-m"},
		Passwd:       "passwd",
		Logger:       log.WithComponent(logger, "accounts"),
	}
}

// Create validates p, creates the account and then records the profile.
// Nothing is recorded when account creation fails.
func (m *Manager) Create(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(m.UserAdd) == 0 {
		return &lfsherrors.ConfigError{Key: "accounts.useradd", Reason: "comando vacío"}
	}

	argv := append(append([]string(nil), m.UserAdd...), p.Name)
	res, err := m.Runner.Run(ctx, executor.Request{Argv: argv})
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return lfsherrors.Wrapf(err, "no se pudo crear el usuario %s", p.Name)
	}

	if err := m.appendRecord(p); err != nil {
		return err
	}
	m.logger().Debug("account created", slog.String("user", p.Name))
	return nil
}

// ChangePassword runs the password utility for name in the foreground.
func (m *Manager) ChangePassword(ctx context.Context, name, dir string) error {
	if name == "" {
		return &lfsherrors.ValidationError{Field: "usuario", Message: "nombre vacío"}
	}
	passwd := m.Passwd
	if passwd == "" {
		passwd = "passwd"
	}
	res, err := m.Runner.Run(ctx, executor.Request{Argv: []string{passwd, name}, Dir: dir})
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return lfsherrors.Wrapf(err, "no se pudo cambiar la contraseña de %s", name)
	}
	return nil
}

// ValidateSession checks that name exists and action is a session action.
func (m *Manager) ValidateSession(name, action string) error {
	if action != SessionStart && action != SessionEnd {
		return &lfsherrors.ValidationError{
			Field:   "acción",
			Message: fmt.Sprintf("se esperaba %s o %s: %s", SessionStart, SessionEnd, action),
		}
	}
	lookup := m.LookupUser
	if lookup == nil {
		lookup = lookupUser
	}
	if err := lookup(name); err != nil {
		return &lfsherrors.NotFoundError{Resource: "usuario", ID: name}
	}
	return nil
}

func (m *Manager) appendRecord(p Profile) error {
	if err := os.MkdirAll(filepath.Dir(m.ProfilesFile), 0700); err != nil {
		return &lfsherrors.ResourceError{Op: "crear", Path: filepath.Dir(m.ProfilesFile), Cause: err}
	}
	f, err := os.OpenFile(m.ProfilesFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return &lfsherrors.ResourceError{Op: "abrir", Path: m.ProfilesFile, Cause: err}
	}
	defer f.Close()

	if _, err := f.WriteString(p.Record()); err != nil {
		return &lfsherrors.ResourceError{Op: "escribir", Path: m.ProfilesFile, Cause: err}
	}
	return nil
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger == nil {
		return log.Discard()
	}
	return m.Logger
}

func lookupUser(name string) error {
	_, err := user.Lookup(name)
	return err
}
