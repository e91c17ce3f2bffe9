// Package commands implements the CLI commands for rulink.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/necolo/rulink/cmd"
	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// settings are loaded once per execution by initConfig.
var (
	settings    *config.Settings
	settingsErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json (default from settings, else text)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("rulink version {{.Version}}\n")

	// Errors are printed by main with their suggestion.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	settings, settingsErr = config.LoadSettings("")
}

var rootCmd = &cobra.Command{
	Use:   "rulink",
	Short: "Install Cursor rules from shared sources",
	Long: `rulink links a project to shared collections of Cursor rules.

A source is a local directory, a GitHub repository, or an npm package
containing .mdc rule files, either at its root or one directory down.
Rules in subdirectories belong to the category named by the directory.

Installed rules are written to .cursor/rules in the current project.`,
	Example: `  # Add a source (the first one becomes active)
  rulink source add github.com/acme/cursor-rules

  # Install one rule, a categorized rule, and a whole category
  rulink install general.mdc typescript/style.mdc react

  # Refresh everything installed from the active source
  rulink update

  See Also: rulink source, rulink list, rulink status`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags and
// stores it in the command context.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	level := logging.LevelFromVerbosity(verbosity)
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity == 0:
		level = logging.LevelFromVerbosity(logging.VerbosityFromEnv())
	}

	format := logFormat
	if format == "" && settings != nil {
		format = settings.LogFormat
	}

	cfg := logging.Config{
		Level:  level,
		Format: logging.ParseFormat(format),
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)
	logging.ConfigureConsole(cmd.OutOrStdout())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command, for documentation generators and tests.
func Root() *cobra.Command {
	return rootCmd
}
