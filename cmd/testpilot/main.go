package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/app"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/urfave/cli/v2"
)

// globalFlags are available to all commands
var globalFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Configuration file path (repeatable, later files override earlier ones)",
		EnvVars: []string{"TESTPILOT_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	},
}

func main() {
	if err := newCLIApp().Run(os.Args); err != nil {
		if msg := errorMessage(err); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		os.Exit(1)
	}
}

func newCLIApp() *cli.App {
	return &cli.App{
		Name:    "testpilot",
		Usage:   "AI-assisted Playwright failure analysis and test generation",
		Version: common.GetVersion(),
		Description: `TestPilot reads a Playwright JSON report, asks a language model to explain
each failed test and renders the answers as an HTML dashboard. It can also
write Playwright tests from markdown user stories.

Examples:
  testpilot analyze --report playwright-report.json --html
  testpilot -c testpilot.toml analyze --open
  testpilot generate --stories ./stories --tests-dir ./tests
  testpilot audit --run <run id>`,
		Flags: globalFlags,
		Commands: []*cli.Command{
			analyzeCommand,
			renderCommand,
			generateCommand,
			auditCommand,
			versionCommand,
		},
	}
}

// loggedError marks an error that has already been written to the log
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

// errorMessage returns the text main prints for err, or "" when the error
// was already logged by the command.
func errorMessage(err error) string {
	var logged *loggedError
	if errors.As(err, &logged) {
		return ""
	}
	return err.Error()
}

// configFiles returns the --config paths, falling back to testpilot.toml in
// the working directory or deployments/local when none were given.
func configFiles(c *cli.Context) []string {
	paths := c.StringSlice("config")
	if len(paths) > 0 {
		return paths
	}

	for _, candidate := range []string{"testpilot.toml", "deployments/local/testpilot.toml"} {
		if _, err := os.Stat(candidate); err == nil {
			return []string{candidate}
		}
	}
	return nil
}

// startup runs the required startup sequence:
// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
// 2. Apply CLI overrides (highest priority)
// 3. Validate
// 4. Initialize logger
// 5. Print banner
func startup(c *cli.Context, overrides common.FlagOverrides) (*common.Config, arbor.ILogger, error) {
	paths := configFiles(c)

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	overrides.LogLevel = c.String("log-level")
	common.ApplyFlagOverrides(config, overrides)

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Strs("config_files", paths).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Configuration loaded")

	return config, logger, nil
}

// withApp builds the application, runs fn under a context cancelled on
// SIGINT/SIGTERM and closes the application afterwards. Errors are logged
// here and returned as loggedError so main only sets the exit code.
func withApp(c *cli.Context, overrides common.FlagOverrides, fn func(ctx context.Context, a *app.App) error) error {
	config, logger, err := startup(c, overrides)
	if err != nil {
		common.GetLogger().Error().Err(err).Msg("Failed to start")
		return &loggedError{err: err}
	}

	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return &loggedError{err: err}
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close application")
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fn(ctx, application); err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("Interrupted")
		}
		logger.Error().Err(err).Str("command", c.Command.Name).Msg("Command failed")
		return &loggedError{err: err}
	}

	return nil
}
