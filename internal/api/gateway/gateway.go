package gateway

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/config"
	"github.com/spec-kit/support-forum-bot/internal/events"
	"github.com/spec-kit/support-forum-bot/internal/platform/discord"
	"github.com/spec-kit/support-forum-bot/internal/service"
)

// Dependencies wires the gateway to the ticket services.
type Dependencies struct {
	Config     config.DiscordConfig
	Dispatcher events.Dispatcher
	Tickets    *service.TicketService
	Closer     *service.TicketCloser
	Logger     *zap.Logger
}

// Gateway translates Discord gateway traffic into ticket operations.
type Gateway struct {
	cfg        config.DiscordConfig
	dispatcher events.Dispatcher
	tickets    *service.TicketService
	closer     *service.TicketCloser
	logger     *zap.Logger

	ctx       context.Context
	connected atomic.Bool
}

// New creates a gateway. ctx bounds every operation started from a gateway event.
func New(ctx context.Context, deps Dependencies) *Gateway {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		cfg:        deps.Config,
		dispatcher: deps.Dispatcher,
		tickets:    deps.Tickets,
		closer:     deps.Closer,
		logger:     logger,
		ctx:        ctx,
	}
}

// Attach registers the gateway handlers on the session and returns a function removing them.
func (g *Gateway) Attach(s *discordgo.Session) func() {
	removers := []func(){
		s.AddHandler(g.onReady),
		s.AddHandler(g.onConnect),
		s.AddHandler(g.onDisconnect),
		s.AddHandler(g.onThreadCreate),
		s.AddHandler(g.onMessageCreate),
		s.AddHandler(g.onInteractionCreate),
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// Connected reports whether the gateway websocket is up.
func (g *Gateway) Connected() bool {
	return g.connected.Load()
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	g.connected.Store(true)
	g.logger.Info("gateway ready",
		zap.String("user", r.User.Username),
		zap.Int("guilds", len(r.Guilds)))

	if !g.cfg.RegisterCommands {
		return
	}
	appID := g.cfg.ApplicationID
	if appID == "" {
		appID = r.User.ID
	}
	registered, err := RegisterCommands(s, appID, g.cfg.GuildID)
	if err != nil {
		g.logger.Error("failed to register commands", zap.Error(err))
		return
	}
	g.logger.Info("commands registered", zap.Int("count", len(registered)))
}

func (g *Gateway) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	g.connected.Store(true)
}

func (g *Gateway) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	g.connected.Store(false)
	g.logger.Warn("gateway disconnected")
}

func (g *Gateway) onThreadCreate(_ *discordgo.Session, e *discordgo.ThreadCreate) {
	if e == nil || e.Channel == nil {
		return
	}
	thread := discord.ToChannel(e.Channel)
	_ = g.dispatcher.Publish(g.ctx, events.Event{
		Type:      events.EventThreadCreated,
		GuildID:   thread.GuildID,
		ChannelID: thread.ID,
		Payload:   events.ThreadCreatedPayload{Thread: *thread},
	})
}

func (g *Gateway) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	msg := discord.ToMessage(m.Message)
	_ = g.dispatcher.Publish(g.ctx, events.Event{
		Type:      events.EventMessageReceived,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		Payload:   events.MessageReceivedPayload{Message: msg},
	})
}

func (g *Gateway) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	g.HandleInteraction(g.ctx, s, i.Interaction)
}
