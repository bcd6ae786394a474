// Package cli provides the command-line interface for the pomodoro timer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pomodoro/internal/alert"
	"pomodoro/internal/config"
	"pomodoro/internal/platform"
	"pomodoro/internal/prompt"
	"pomodoro/internal/ui/styles"
)

const appName = "pomodoro"

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// Alerter is the alert emitter used by the run command.
type Alerter interface {
	Emit(ctx context.Context) error
	Close()
}

// deps are the side-effecting collaborators of the root command.
type deps struct {
	loadDotEnv   func(path string) error
	newAlerter   func(cfg alert.Config, logger *slog.Logger) (Alerter, error)
	acquireGuard func(name string) (*platform.InstanceGuard, error)
}

func defaultDeps() deps {
	return deps{
		loadDotEnv: config.LoadDotEnv,
		newAlerter: func(cfg alert.Config, logger *slog.Logger) (Alerter, error) {
			emitter, err := alert.New(cfg, logger)
			if err != nil {
				return nil, err
			}
			return emitter, nil
		},
		acquireGuard: platform.AcquireSingleInstance,
	}
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Pomodoro technique timer for the terminal",
		Long: `pomodoro asks for a work length, a break length and a number of iterations,
then alternates timed work and break sessions with a live progress bar and an
audible alert at the end of each session.

The alert sound is read from --sound-file, POMODORO_SOUND_FILE or
SOUND_FILE_LOCATION (a .env file in the working directory is honoured).`,
		Example: `  pomodoro
  pomodoro --work 25 --break 5 --iterations 4
  SOUND_FILE_LOCATION=beep-01a.mp3 pomodoro`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			if err := d.loadDotEnv(config.DotEnvFile); err != nil {
				return err
			}

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimer(cmd, d)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command and reports any error on stderr.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func reportError(w io.Writer, err error) {
	theme := styles.New(w, false)

	var inputErr *prompt.InputError
	switch {
	case errors.As(err, &inputErr):
		_, _ = fmt.Fprintln(w, theme.Error.Render("Problem parsing arguments: "+inputErr.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, prompt.ErrInterrupted):
		_, _ = fmt.Fprintln(w, theme.Error.Render("Interrupted."))
	default:
		_, _ = fmt.Fprintln(w, theme.Error.Render("Error: "+err.Error()))
	}
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg := config.Defaults()
	return &cfg
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
