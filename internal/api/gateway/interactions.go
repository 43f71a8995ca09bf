package gateway

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/platform/discord"
	"github.com/spec-kit/support-forum-bot/internal/service"
	apperrors "github.com/spec-kit/support-forum-bot/pkg/util/errorutil"
)

const (
	msgClosing         = "Closing ticket..."
	msgCloseTagMissing = "The tag for the reason could not be found. Please contact an admin."
	msgUnknownCommand  = "This command is not supported."
)

var errMissingSupportRole = apperrors.NewForbidden("you need the support role to use this command")

// InteractionResponder is the part of the session used to answer interactions.
type InteractionResponder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
}

// HandleInteraction routes slash commands. Other interaction kinds are ignored.
func (g *Gateway) HandleInteraction(ctx context.Context, r InteractionResponder, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	logger := g.logger.With(
		zap.String("command", data.Name),
		zap.String("channel_id", i.ChannelID),
		zap.String("interaction_id", i.ID))

	if !g.hasSupportRole(i) {
		g.respond(ctx, r, i, apperrors.UserMessage(errMissingSupportRole), logger)
		return
	}

	switch data.Name {
	case CommandCloseTicket:
		g.handleCloseTicket(ctx, r, i, data, logger)
	case CommandSupportAnswering:
		g.handleSupportAnswering(ctx, r, i, data, logger)
	default:
		logger.Warn("unknown command")
		g.respond(ctx, r, i, msgUnknownCommand, logger)
	}
}

func (g *Gateway) hasSupportRole(i *discordgo.Interaction) bool {
	if i.Member == nil {
		return false
	}
	for _, role := range i.Member.Roles {
		if role == g.cfg.SupportRoleID {
			return true
		}
	}
	return false
}

func (g *Gateway) handleCloseTicket(ctx context.Context, r InteractionResponder, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, logger *zap.Logger) {
	opts, err := parseCloseOptions(data.Options)
	if err != nil {
		logger.Warn("invalid close_ticket options", zap.Error(err))
		g.respond(ctx, r, i, apperrors.UserMessage(apperrors.NewInternalError(err)), logger)
		return
	}
	if !g.respond(ctx, r, i, msgClosing, logger) {
		return
	}

	err = g.closer.Close(ctx, service.CloseInput{
		ChannelID:   i.ChannelID,
		Reason:      opts.Reason,
		AllowReopen: opts.AllowReopen,
		Closer:      discord.ToUser(i.Member.User),
	})
	switch {
	case err == nil:
		if err := r.InteractionResponseDelete(i, discordgo.WithContext(ctx)); err != nil {
			logger.Warn("failed to delete close acknowledgement", zap.Error(err))
		}
	case apperrors.IsCode(err, apperrors.CodeTagNotFound):
		g.edit(ctx, r, i, msgCloseTagMissing, logger)
	default:
		logger.Warn("close_ticket failed", zap.Error(err))
		g.edit(ctx, r, i, apperrors.UserMessage(err), logger)
	}
}

func (g *Gateway) handleSupportAnswering(ctx context.Context, r InteractionResponder, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, logger *zap.Logger) {
	answered, err := parseAnswered(data.Options)
	if err != nil {
		logger.Warn("invalid support_answering options", zap.Error(err))
		g.respond(ctx, r, i, apperrors.UserMessage(apperrors.NewInternalError(err)), logger)
		return
	}
	if !g.respond(ctx, r, i, service.MarkingMessage(answered), logger) {
		return
	}

	reply, err := g.tickets.MarkAnswered(ctx, service.AnsweredInput{ChannelID: i.ChannelID, Answered: answered})
	if err != nil {
		logger.Warn("support_answering failed", zap.Error(err))
		reply = apperrors.UserMessage(err)
	}
	g.edit(ctx, r, i, reply, logger)
}

// respond sends an ephemeral message as the initial interaction response.
func (g *Gateway) respond(ctx context.Context, r InteractionResponder, i *discordgo.Interaction, content string, logger *zap.Logger) bool {
	err := r.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		logger.Warn("failed to respond to interaction", zap.Error(err))
		return false
	}
	return true
}

func (g *Gateway) edit(ctx context.Context, r InteractionResponder, i *discordgo.Interaction, content string, logger *zap.Logger) {
	if _, err := r.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}, discordgo.WithContext(ctx)); err != nil {
		logger.Warn("failed to edit interaction response", zap.Error(err))
	}
}
