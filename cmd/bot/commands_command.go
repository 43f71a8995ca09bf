package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/api/gateway"
)

func newCommandsCommand() *cobra.Command {
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the bot's slash commands",
	}
	commandsCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Overwrite the guild's slash commands with the current definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandsSync()
		},
	})
	return commandsCmd
}

func runCommandsSync() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	appID := cfg.Discord.ApplicationID
	if appID == "" {
		self, err := session.User("@me")
		if err != nil {
			return fmt.Errorf("resolve application id: %w", err)
		}
		appID = self.ID
	}

	registered, err := gateway.RegisterCommands(session, appID, cfg.Discord.GuildID)
	if err != nil {
		return err
	}
	for _, c := range registered {
		logger.Info("command registered", zap.String("name", c.Name), zap.String("id", c.ID))
	}
	return nil
}
