package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/config"
	"github.com/spec-kit/support-forum-bot/internal/observability"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "support-forum-bot",
		Short:         "Discord bot managing support tickets in a forum channel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newCommandsCommand())
	return rootCmd
}

// bootstrap loads and validates configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
