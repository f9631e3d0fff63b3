package main

import (
	"context"
	"fmt"

	"codeberg.org/mutker/ministatus/internal/config"
	"codeberg.org/mutker/ministatus/internal/errors"
	"codeberg.org/mutker/ministatus/internal/logger"
	"codeberg.org/mutker/ministatus/internal/pid"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func main() {
	// replaced by the configured level once the config is loaded
	logger.Init(config.DefaultLogLevel, logger.IsService())

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Msg("ministatus failed")
		}
		logger.Fatal().Err(err).Msg("ministatus failed")
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ministatus",
		Short:         "Status line for the X root window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newRefreshCmd())

	return root
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Wake the running instance so it redraws immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := pid.Signal(cfg.PIDFile, unix.SIGUSR1); err != nil {
				if errors.HasCode(err, errors.ErrNotRunning) {
					fmt.Fprintln(cmd.ErrOrStderr(), "ministatus is not running")
				}
				return err
			}

			logger.Debug().Str("pid_file", cfg.PIDFile).Msg("Refresh requested")

			return nil
		},
	}
}

// loadConfig reads the configuration and applies its log level
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Msg("Config loaded")

	return cfg, nil
}
