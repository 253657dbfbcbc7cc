package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mlechner911/emperor/internal/app"
	"github.com/mlechner911/emperor/internal/config"
	"github.com/mlechner911/emperor/internal/logging"
)

// RunFunc starts the application and blocks until it exits.
type RunFunc func(cfg *config.Context, configPath string, log zerolog.Logger, assets fs.FS) error

// Execute runs the emperor command line with the real Wails application.
func Execute(assets fs.FS) error {
	return Run(NewRootCommand(assets, app.Run))
}

// Run executes cmd and prints any failure that was not already logged to
// the command's stderr.
func Run(cmd *cobra.Command) error {
	err := cmd.Execute()
	var logged *loggedError
	if err != nil && !errors.As(err, &logged) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// loggedError marks a failure already reported through the logger.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

// NewRootCommand builds the emperor command; run starts the application.
func NewRootCommand(assets fs.FS, run RunFunc) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "emperor",
		Short:         "Emperor desktop assistant",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			log, err := logging.NewConsole(cfg.Log.Level, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			log = log.With().Str("session", uuid.NewString()).Logger()
			log.Info().
				Str("version", cfg.Version).
				Str("config", path).
				Msg("starting")

			if err := run(cfg, path, log, assets); err != nil {
				log.Error().Err(err).Msg("error while running application")
				return &loggedError{err: err}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config override file (default <user config dir>/Emperor/emperor.toml)")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(versionCmd(&configPath))
	return root
}

func versionCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the product name and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.ProductName, cfg.Version)
			return nil
		},
	}
}

// loadConfig loads an explicit override, or the user's one if present.
func loadConfig(path string) (*config.Context, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	return config.LoadUser()
}
