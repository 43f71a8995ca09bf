package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/api/gateway"
	httptransport "github.com/spec-kit/support-forum-bot/internal/api/http"
	"github.com/spec-kit/support-forum-bot/internal/api/http/handlers"
	"github.com/spec-kit/support-forum-bot/internal/events"
	"github.com/spec-kit/support-forum-bot/internal/observability"
	"github.com/spec-kit/support-forum-bot/internal/persistence"
	"github.com/spec-kit/support-forum-bot/internal/platform/discord"
	"github.com/spec-kit/support-forum-bot/internal/service"
	"github.com/spec-kit/support-forum-bot/internal/worker"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to the Discord gateway and handle tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := observability.SetupTracing(ctx, cfg.Telemetry, logger)
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	var (
		redis     *persistence.Redis
		roleCache service.RoleCache
	)
	if cfg.Redis.RoleCacheEnable {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		if cache := persistence.NewRoleCache(redis, cfg.Redis.RoleCacheTTL()); cache != nil {
			roleCache = cache
		}
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	metrics := observability.NewMetrics()
	client := discord.NewClient(session)
	deps := service.TicketDependencies{
		Config:  cfg.Discord,
		Client:  client,
		Oracle:  service.NewRoleOracle(cfg.Discord, client, roleCache, logger),
		Logger:  logger,
		Metrics: metrics,
	}
	tickets := service.NewTicketService(deps)
	closer := service.NewTicketCloser(deps)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartTicketWorker(tickets, dispatcher)

	gw := gateway.New(ctx, gateway.Dependencies{
		Config:     cfg.Discord,
		Dispatcher: dispatcher,
		Tickets:    tickets,
		Closer:     closer,
		Logger:     logger,
	})
	detach := gw.Attach(session)
	defer detach()

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer session.Close() //nolint:errcheck

	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, gw, redis, metrics)
	app := httptransport.NewServer(cfg.App.Name, health, logger, metrics)
	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("support bot running",
		zap.String("guild_id", cfg.Discord.GuildID),
		zap.String("forum_channel_id", cfg.Discord.ForumChannelID),
		zap.String("addr", cfg.App.Addr()))

	waitForShutdown(logger)

	cancel()
	_ = app.ShutdownWithTimeout(5 * time.Second)
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
