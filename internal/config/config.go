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

// Package config loads lfshell configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tombee/lfshell/internal/lifecycle"
	"github.com/tombee/lfshell/internal/log"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const (
	// DefaultPrompt is the interactive prompt.
	DefaultPrompt = "lfs-shell> "
	// DefaultMaxArgs is the token cap per command line.
	DefaultMaxArgs = 99
	// DefaultDaemonDir is where LFS installs its bootscripts.
	DefaultDaemonDir = "/etc/rc.d/init.d"
	// DefaultRunDir holds daemon PID files.
	DefaultRunDir = "/run"
	// DefaultStopSignal is sent by "demonio detener".
	DefaultStopSignal = "TERM"
)

// Config represents the complete lfshell configuration.
type Config struct {
	Shell    ShellConfig    `yaml:"shell"`
	Daemons  DaemonsConfig  `yaml:"daemons"`
	Audit    AuditConfig    `yaml:"audit"`
	Accounts AccountsConfig `yaml:"accounts"`
	Log      LogConfig      `yaml:"log"`
}

// ShellConfig configures the interactive loop.
type ShellConfig struct {
	// Prompt is printed before every read.
	// Environment: LFSH_PROMPT
	Prompt string `yaml:"prompt,omitempty"`

	// MaxArgs caps the tokens kept per line; the rest are dropped.
	MaxArgs int `yaml:"max_args,omitempty"`
}

// DaemonsConfig configures the daemon registry.
type DaemonsConfig struct {
	// Dir holds one executable bootscript per daemon.
	// Environment: LFSH_DAEMON_DIR
	Dir string `yaml:"dir,omitempty"`

	// RunDir holds "<name>.pid" files.
	// Environment: LFSH_RUN_DIR
	RunDir string `yaml:"run_dir,omitempty"`

	// Ignore lists glob patterns of entries in Dir that are not daemons.
	Ignore []string `yaml:"ignore,omitempty"`

	// StopSignal is the signal name sent on stop (TERM, INT, HUP, ...).
	StopSignal string `yaml:"stop_signal,omitempty"`
}

// AuditConfig configures the history and error logs.
type AuditConfig struct {
	// HistoryLog records every input line and success notices.
	// Environment: LFSH_HISTORY_LOG
	HistoryLog string `yaml:"history_log,omitempty"`

	// ErrorLog records failures.
	// Environment: LFSH_ERROR_LOG
	ErrorLog string `yaml:"error_log,omitempty"`
}

// AccountsConfig configures account management.
type AccountsConfig struct {
	// ProfilesFile receives a record per created account.
	// Environment: LFSH_PROFILES_FILE
	ProfilesFile string `yaml:"profiles_file,omitempty"`

	// UserAdd is the account creation command. The user name is appended.
	UserAdd []string `yaml:"useradd,omitempty"`

	// Passwd is the password change utility.
	Passwd string `yaml:"passwd,omitempty"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	Format string `yaml:"format"`

	// AddSource adds source file and line information to log entries.
	AddSource bool `yaml:"add_source"`
}

// Default returns a configuration with default values.
func Default() *Config {
	dataDir := DataDir()
	return &Config{
		Shell: ShellConfig{
			Prompt:  DefaultPrompt,
			MaxArgs: DefaultMaxArgs,
		},
		Daemons: DaemonsConfig{
			Dir:        DefaultDaemonDir,
			RunDir:     DefaultRunDir,
			Ignore:     []string{"*.dpkg-*", "*~"},
			StopSignal: DefaultStopSignal,
		},
		Audit: AuditConfig{
			HistoryLog: filepath.Join(dataDir, "historial.log"),
			ErrorLog:   filepath.Join(dataDir, "errores.log"),
		},
		Accounts: AccountsConfig{
			ProfilesFile: filepath.Join(dataDir, "usuarios.txt"),
			UserAdd:      []string{"useradd", "-m"},
			Passwd:       "passwd",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads configuration from configPath (when non-empty), fills in
// defaults, applies environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &lfsherrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	// Apply defaults to any zero values (handles minimal configs)
	cfg.applyDefaults()

	cfg.loadFromEnv()
	cfg.ExpandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, &lfsherrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := Default()

	if c.Shell.Prompt == "" {
		c.Shell.Prompt = d.Shell.Prompt
	}
	if c.Shell.MaxArgs == 0 {
		c.Shell.MaxArgs = d.Shell.MaxArgs
	}
	if c.Daemons.Dir == "" {
		c.Daemons.Dir = d.Daemons.Dir
	}
	if c.Daemons.RunDir == "" {
		c.Daemons.RunDir = d.Daemons.RunDir
	}
	if c.Daemons.StopSignal == "" {
		c.Daemons.StopSignal = d.Daemons.StopSignal
	}
	if c.Audit.HistoryLog == "" {
		c.Audit.HistoryLog = d.Audit.HistoryLog
	}
	if c.Audit.ErrorLog == "" {
		c.Audit.ErrorLog = d.Audit.ErrorLog
	}
	if c.Accounts.ProfilesFile == "" {
		c.Accounts.ProfilesFile = d.Accounts.ProfilesFile
	}
	if len(c.Accounts.UserAdd) == 0 {
		c.Accounts.UserAdd = d.Accounts.UserAdd
	}
	if c.Accounts.Passwd == "" {
		c.Accounts.Passwd = d.Accounts.Passwd
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

func (c *Config) loadFromFile(path string) error {
	path = expandHome(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return lfsherrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return lfsherrors.Wrap(err, "failed to parse YAML")
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("LFSH_PROMPT"); val != "" {
		c.Shell.Prompt = val
	}
	if val := os.Getenv("LFSH_MAX_ARGS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Shell.MaxArgs = n
		}
	}

	if val := os.Getenv("LFSH_DAEMON_DIR"); val != "" {
		c.Daemons.Dir = val
	}
	if val := os.Getenv("LFSH_RUN_DIR"); val != "" {
		c.Daemons.RunDir = val
	}

	if val := os.Getenv("LFSH_HISTORY_LOG"); val != "" {
		c.Audit.HistoryLog = val
	}
	if val := os.Getenv("LFSH_ERROR_LOG"); val != "" {
		c.Audit.ErrorLog = val
	}
	if val := os.Getenv("LFSH_PROFILES_FILE"); val != "" {
		c.Accounts.ProfilesFile = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Shell.MaxArgs < 1 {
		errs = append(errs, fmt.Sprintf("shell.max_args must be positive, got %d", c.Shell.MaxArgs))
	}
	if c.Daemons.Dir == "" {
		errs = append(errs, "daemons.dir is required")
	}
	if c.Daemons.RunDir == "" {
		errs = append(errs, "daemons.run_dir is required")
	}
	if _, err := lifecycle.ParseSignal(c.Daemons.StopSignal); err != nil {
		errs = append(errs, fmt.Sprintf("daemons.stop_signal: %v", err))
	}
	if c.Audit.HistoryLog == "" {
		errs = append(errs, "audit.history_log is required")
	}
	if c.Audit.ErrorLog == "" {
		errs = append(errs, "audit.error_log is required")
	}
	if c.Accounts.Passwd == "" {
		errs = append(errs, "accounts.passwd is required")
	}
	if !log.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level must be one of trace, debug, info, warn, error, got %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}

	return nil
}

// ExpandPaths resolves "~/" prefixes in every configured path.
func (c *Config) ExpandPaths() {
	c.Daemons.Dir = expandHome(c.Daemons.Dir)
	c.Daemons.RunDir = expandHome(c.Daemons.RunDir)
	c.Audit.HistoryLog = expandHome(c.Audit.HistoryLog)
	c.Audit.ErrorLog = expandHome(c.Audit.ErrorLog)
	c.Accounts.ProfilesFile = expandHome(c.Accounts.ProfilesFile)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
