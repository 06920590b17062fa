package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/finratio/pkg/config"
	"github.com/wonny/finratio/pkg/logger"
)

// loadRuntime resolves configuration and logger from the global flags
func loadRuntime(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("env") {
		cfg.Env = env
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	log.Debugf("config loaded: env=%s level=%s format=%s", cfg.Env, cfg.LogLevel, cfg.LogFormat)
	return cfg, log, nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// fail logs err and returns it so cobra exits non-zero
func fail(log *logger.Logger, msg string, err error) error {
	log.WithError(err).Error(msg)
	PrintError(fmt.Sprintf("%s: %v", msg, err))
	return err
}
