package gateway

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/support-forum-bot/internal/domain"
)

const (
	CommandCloseTicket      = "close_ticket"
	CommandSupportAnswering = "support_answering"

	optionReason      = "reason"
	optionAllowReopen = "allow_reopen"
	optionAnswered    = "answered"
)

// CommandRegistrar is the part of the session used to publish command definitions.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Commands returns the slash-command definitions the bot serves.
func Commands() []*discordgo.ApplicationCommand {
	reasons := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.CloseReasons()))
	for _, reason := range domain.CloseReasons() {
		reasons = append(reasons, &discordgo.ApplicationCommandOptionChoice{
			Name:  reason.Display(),
			Value: string(reason),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandCloseTicket,
			Description: "Closes the ticket",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionReason,
					Description: "Why the ticket is being closed",
					Required:    true,
					Choices:     reasons,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        optionAllowReopen,
					Description: "Whether the owner may reopen the ticket",
					Required:    true,
				},
			},
		},
		{
			Name:        CommandSupportAnswering,
			Description: "Marks the support ticket as answered or pending",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        optionAnswered,
					Description: "Whether the post is answered",
					Required:    true,
				},
			},
		},
	}
}

// RegisterCommands overwrites the guild's command set with Commands.
func RegisterCommands(registrar CommandRegistrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	if appID == "" {
		return nil, fmt.Errorf("register commands: application id is empty")
	}
	registered, err := registrar.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	return registered, nil
}

func optionsByName(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

type closeOptions struct {
	Reason      domain.CloseReason
	AllowReopen bool
}

func parseCloseOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) (closeOptions, error) {
	byName := optionsByName(opts)

	reasonOpt, ok := byName[optionReason]
	if !ok || reasonOpt.Type != discordgo.ApplicationCommandOptionString {
		return closeOptions{}, fmt.Errorf("missing %s option", optionReason)
	}
	reason, err := domain.ParseCloseReason(reasonOpt.StringValue())
	if err != nil {
		return closeOptions{}, err
	}

	reopenOpt, ok := byName[optionAllowReopen]
	if !ok || reopenOpt.Type != discordgo.ApplicationCommandOptionBoolean {
		return closeOptions{}, fmt.Errorf("missing %s option", optionAllowReopen)
	}
	return closeOptions{Reason: reason, AllowReopen: reopenOpt.BoolValue()}, nil
}

func parseAnswered(opts []*discordgo.ApplicationCommandInteractionDataOption) (bool, error) {
	opt, ok := optionsByName(opts)[optionAnswered]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionBoolean {
		return false, fmt.Errorf("missing %s option", optionAnswered)
	}
	return opt.BoolValue(), nil
}
