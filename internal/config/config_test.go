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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// isolate points every XDG lookup at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, key := range []string{
		"LFSH_PROMPT", "LFSH_MAX_ARGS", "LFSH_DAEMON_DIR", "LFSH_RUN_DIR",
		"LFSH_HISTORY_LOG", "LFSH_ERROR_LOG", "LFSH_PROFILES_FILE",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	dir := isolate(t)
	cfg := Default()

	assert.Equal(t, "lfs-shell> ", cfg.Shell.Prompt)
	assert.Equal(t, 99, cfg.Shell.MaxArgs)
	assert.Equal(t, "/etc/rc.d/init.d", cfg.Daemons.Dir)
	assert.Equal(t, "/run", cfg.Daemons.RunDir)
	assert.Equal(t, "TERM", cfg.Daemons.StopSignal)
	assert.Equal(t, filepath.Join(dir, "data", "lfshell", "historial.log"), cfg.Audit.HistoryLog)
	assert.Equal(t, filepath.Join(dir, "data", "lfshell", "errores.log"), cfg.Audit.ErrorLog)
	assert.Equal(t, filepath.Join(dir, "data", "lfshell", "usuarios.txt"), cfg.Accounts.ProfilesFile)
	assert.Equal(t, []string{"useradd", "-m"}, cfg.Accounts.UserAdd)
	assert.Equal(t, "passwd", cfg.Accounts.Passwd)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("no file uses defaults", func(t *testing.T) {
		isolate(t)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, `
shell:
  prompt: "lfs# "
daemons:
  dir: /srv/init.d
  stop_signal: SIGINT
log:
  level: debug
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "lfs# ", cfg.Shell.Prompt)
		assert.Equal(t, 99, cfg.Shell.MaxArgs)
		assert.Equal(t, "/srv/init.d", cfg.Daemons.Dir)
		assert.Equal(t, "/run", cfg.Daemons.RunDir)
		assert.Equal(t, "SIGINT", cfg.Daemons.StopSignal)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, "daemons:\n  run_dir: /var/run\n")
		t.Setenv("LFSH_RUN_DIR", "/tmp/run")
		t.Setenv("LFSH_PROMPT", "> ")
		t.Setenv("LFSH_HISTORY_LOG", "/tmp/h.log")
		t.Setenv("LOG_FORMAT", "JSON")
		t.Setenv("LOG_SOURCE", "true")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/run", cfg.Daemons.RunDir)
		assert.Equal(t, "> ", cfg.Shell.Prompt)
		assert.Equal(t, "/tmp/h.log", cfg.Audit.HistoryLog)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.True(t, cfg.Log.AddSource)
	})

	t.Run("home paths are expanded", func(t *testing.T) {
		home := isolate(t)
		path := writeConfig(t, "audit:\n  error_log: ~/logs/err.log\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "logs", "err.log"), cfg.Audit.ErrorLog)
	})

	t.Run("missing file", func(t *testing.T) {
		isolate(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

		var cfgErr *lfsherrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "config_file", cfgErr.Key)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed YAML", func(t *testing.T) {
		isolate(t)
		_, err := Load(writeConfig(t, "shell: [unclosed\n"))

		var cfgErr *lfsherrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("invalid values", func(t *testing.T) {
		isolate(t)
		_, err := Load(writeConfig(t, `
shell:
  max_args: -3
daemons:
  stop_signal: NOPE
log:
  level: loud
  format: xml
`))
		var cfgErr *lfsherrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "validation", cfgErr.Key)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		for _, key := range []string{"shell.max_args", "daemons.stop_signal", "log.level", "log.format"} {
			assert.True(t, strings.Contains(err.Error(), key), "missing %s in %v", key, err)
		}
	})
}

func TestDefaultConfigPath(t *testing.T) {
	dir := isolate(t)
	assert.Empty(t, DefaultConfigPath())

	path := filepath.Join(dir, "config", "lfshell", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))
	assert.Equal(t, path, DefaultConfigPath())
}

func TestDataDirFallsBackToHome(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_DATA_HOME", "")
	assert.Equal(t, filepath.Join(dir, ".local", "share", "lfshell"), DataDir())
}
