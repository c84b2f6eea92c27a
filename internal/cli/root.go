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

// Package cli builds the lfshell command line.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/lfshell/internal/accounts"
	"github.com/tombee/lfshell/internal/audit"
	"github.com/tombee/lfshell/internal/cli/format"
	"github.com/tombee/lfshell/internal/config"
	"github.com/tombee/lfshell/internal/executor"
	"github.com/tombee/lfshell/internal/lifecycle"
	"github.com/tombee/lfshell/internal/log"
	"github.com/tombee/lfshell/internal/registry"
	"github.com/tombee/lfshell/internal/shell"
	"github.com/tombee/lfshell/internal/signals"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

// Version information, set from main.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version, commit, buildDate = v, c, b
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// options are the global flags.
type options struct {
	configPath string
	daemonDir  string
	runDir     string
	historyLog string
	errorLog   string
	verbose    bool
}

// NewRootCommand creates the root Cobra command. Running it without a
// subcommand starts an interactive session on the command's streams.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "lfshell",
		Short: "lfshell - administrative shell for Linux From Scratch systems",
		Long: `lfshell is an interactive command interpreter for administering a
Linux From Scratch system. It wraps file, permission, account and
bootscript management in a small set of commands, runs anything else
as an external program, and keeps a history and error log of every
line entered.

Type 'exit' or send end-of-file (Ctrl-D) to leave the shell.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: ~/.config/lfshell/config.yaml)")
	flags.StringVar(&opts.daemonDir, "daemon-dir", "", "Directory holding daemon bootscripts")
	flags.StringVar(&opts.runDir, "run-dir", "", "Directory holding daemon PID files")
	flags.StringVar(&opts.historyLog, "history-log", "", "Path of the command history log")
	flags.StringVar(&opts.errorLog, "error-log", "", "Path of the error log")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug diagnostics on stderr")

	cmd.AddCommand(newVersionCommand())

	return cmd
}

func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.daemonDir != "" {
		cfg.Daemons.Dir = opts.daemonDir
	}
	if opts.runDir != "" {
		cfg.Daemons.RunDir = opts.runDir
	}
	if opts.historyLog != "" {
		cfg.Audit.HistoryLog = opts.historyLog
	}
	if opts.errorLog != "" {
		cfg.Audit.ErrorLog = opts.errorLog
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	logCfg := log.FromEnv()
	if os.Getenv("LFSH_DEBUG") == "" {
		logCfg.Level = cfg.Log.Level
	}
	logCfg.Format = log.Format(cfg.Log.Format)
	logCfg.AddSource = logCfg.AddSource || cfg.Log.AddSource
	logCfg.Output = out
	return log.New(logCfg)
}

func runShell(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return NewInvalidConfigError("invalid configuration", err)
	}

	stdin, stdout, stderr := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := newLogger(cfg, stderr)

	stopSignal, err := lifecycle.ParseSignal(cfg.Daemons.StopSignal)
	if err != nil {
		return NewInvalidConfigError("invalid configuration", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return lfsherrors.Wrap(err, "failed to determine working directory")
	}

	runner := executor.New(logger)
	runner.Stdin, runner.Stdout, runner.Stderr = stdin, stdout, stderr

	daemons := registry.New(cfg.Daemons.Dir, cfg.Daemons.RunDir, runner, logger)
	daemons.Ignore = cfg.Daemons.Ignore
	daemons.StopSignal = stopSignal

	accts := accounts.NewManager(runner, cfg.Accounts.ProfilesFile, logger)
	accts.UserAdd = cfg.Accounts.UserAdd
	accts.Passwd = cfg.Accounts.Passwd

	styler := format.NewStyler(format.IsTerminal(stdout))
	env := &shell.Env{
		Dir:    wd,
		Stdout: stdout,
		Stderr: stderr,
		Trail: audit.NewTrail(
			audit.NewFile(cfg.Audit.HistoryLog),
			audit.NewFile(cfg.Audit.ErrorLog),
			stderr,
		),
		Runner:   runner,
		Daemons:  daemons,
		Accounts: accts,
		Styler:   styler,
		Logger:   logger,
	}

	interp := shell.NewInterpreter(shell.NewDispatcher(cfg.Shell.MaxArgs, logger), env, stdin, logger)
	interp.Prompt = cfg.Shell.Prompt
	guard := signals.NewController(stdout, logger)
	guard.Styler = styler
	interp.Signals = guard

	logger.Debug("starting session",
		slog.String("history_log", cfg.Audit.HistoryLog),
		slog.String("daemon_dir", cfg.Daemons.Dir))
	if err := interp.Run(cmd.Context()); err != nil {
		return NewSessionError("session aborted", err)
	}
	return nil
}
