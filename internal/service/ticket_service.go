package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/config"
	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/events"
	"github.com/spec-kit/support-forum-bot/internal/observability"
	"github.com/spec-kit/support-forum-bot/internal/platform"
	apperrors "github.com/spec-kit/support-forum-bot/pkg/util/errorutil"
)

// TicketService applies the thread tag state machine to platform events and commands.
type TicketService struct {
	cfg     config.DiscordConfig
	client  platform.Client
	oracle  *RoleOracle
	machine *StateMachine
	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Config  config.DiscordConfig
	Client  platform.Client
	Oracle  *RoleOracle
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	oracle := deps.Oracle
	if oracle == nil {
		oracle = NewRoleOracle(deps.Config, deps.Client, nil, logger)
	}
	return &TicketService{
		cfg:     deps.Config,
		client:  deps.Client,
		oracle:  oracle,
		machine: NewStateMachine(deps.Config),
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  otel.Tracer(observability.TracerName),
	}
}

// RegisterHandlers subscribes the event-driven transitions.
func (s *TicketService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventThreadCreated, s.HandleThreadCreated)
	dispatcher.Subscribe(events.EventMessageReceived, s.HandleMessage)
}

// HandleThreadCreated tags a new ticket and posts the welcome message.
func (s *TicketService) HandleThreadCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ThreadCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	thread := payload.Thread

	ctx, span := s.tracer.Start(ctx, "ticket.thread_created", trace.WithAttributes(
		attribute.String("thread.id", thread.ID),
		attribute.String("event.id", event.ID)))
	defer span.End()

	// Tags already present mean the thread was seen before; skip without fetching the parent.
	if len(thread.AppliedTags) > 0 || thread.ParentID == "" {
		s.record("thread_created", s.machine.OnThreadCreated(&thread, nil))
		return nil
	}

	parent, err := s.client.Channel(ctx, thread.ParentID)
	if err != nil {
		s.logger.Warn("error getting parent channel", zap.String("thread_id", thread.ID), zap.Error(err))
		return failSpan(span, fmt.Errorf("get parent channel: %w", err))
	}

	out := s.machine.OnThreadCreated(&thread, parent)
	s.record("thread_created", out)
	if out.Err != nil {
		s.logger.Warn("cannot tag new ticket", zap.String("thread_id", thread.ID), zap.Error(out.Err))
		return nil
	}
	if out.Kind == OutcomeNoOp {
		return nil
	}

	// The welcome is still sent when tagging fails.
	if err := s.client.EditThread(ctx, thread.ID, domain.ThreadEdit{AppliedTags: out.Tags}); err != nil {
		s.logger.Warn("could not tag new ticket", zap.String("thread_id", thread.ID), zap.Error(err))
		s.metrics.RecordError("thread_created", apperrors.CodeInternal)
		span.RecordError(err)
	} else {
		s.logger.Info("new ticket tagged", zap.String("thread_id", thread.ID), zap.String("owner_id", thread.OwnerID))
	}

	if out.Notify == nil {
		return nil
	}
	msg := *out.Notify
	if thread.LastMessageID != "" {
		_, err := s.client.Message(ctx, thread.ID, thread.LastMessageID)
		switch {
		case err == nil:
			msg.ReplyToID = thread.LastMessageID
			msg.MentionAll = true
		case errors.Is(err, platform.ErrNotFound):
			s.logger.Debug("starter message gone", zap.String("thread_id", thread.ID))
		default:
			s.logger.Warn("could not fetch starter message", zap.String("thread_id", thread.ID), zap.Error(err))
		}
	}
	if _, err := s.client.SendMessage(ctx, thread.ID, msg); err != nil {
		s.logger.Warn("could not send welcome message", zap.String("thread_id", thread.ID), zap.Error(err))
	}
	return nil
}

// HandleMessage re-evaluates the pending/answered status of a ticket after a new message.
func (s *TicketService) HandleMessage(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageReceivedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	msg := payload.Message
	// Our own close notice must not overwrite the close tag.
	if msg.Author.Bot {
		return nil
	}
	// Only the configured guild has a support forum; skip everything else before any lookup.
	if msg.GuildID != s.cfg.GuildID {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "ticket.message", trace.WithAttributes(
		attribute.String("thread.id", msg.ChannelID),
		attribute.String("event.id", event.ID)))
	defer span.End()

	thread, err := s.client.Channel(ctx, msg.ChannelID)
	if err != nil {
		if !errors.Is(err, platform.ErrNotFound) {
			s.logger.Warn("error getting message channel", zap.String("channel_id", msg.ChannelID), zap.Error(err))
		}
		return nil
	}
	if !thread.IsGuildChannel() || thread.ParentID == "" {
		return nil
	}
	parent, err := s.client.Channel(ctx, thread.ParentID)
	if err != nil {
		s.logger.Warn("error getting parent channel", zap.String("thread_id", thread.ID), zap.Error(err))
		return failSpan(span, fmt.Errorf("get parent channel: %w", err))
	}

	author := domain.ThreadMember{
		ThreadID: thread.ID,
		GuildID:  s.cfg.GuildID,
		UserID:   msg.Author.ID,
		Member:   msg.Member,
	}
	out := s.machine.OnMessage(msg, thread, parent, func() bool {
		return s.oracle.IsSupport(ctx, author)
	})
	s.record("message", out)
	if out.Err != nil {
		s.logger.Warn("cannot update ticket status", zap.String("thread_id", thread.ID), zap.Error(out.Err))
		return nil
	}
	if out.Kind == OutcomeNoOp {
		return nil
	}

	s.logger.Info("marking thread",
		zap.String("thread_id", thread.ID),
		zap.String("thread_name", thread.Name),
		zap.String("status", out.Reason))
	if err := s.client.EditThread(ctx, thread.ID, domain.ThreadEdit{AppliedTags: out.Tags}); err != nil {
		return failSpan(span, fmt.Errorf("apply tags: %w", err))
	}
	return nil
}

// AnsweredInput describes a support_answering invocation.
type AnsweredInput struct {
	ChannelID string
	Answered  bool
}

// MarkAnswered sets a support ticket to answered or pending. It returns the reply for
// the invoker; a rejected command returns a reply and no error.
func (s *TicketService) MarkAnswered(ctx context.Context, input AnsweredInput) (string, error) {
	ctx, span := s.tracer.Start(ctx, "ticket.mark_answered", trace.WithAttributes(
		attribute.String("thread.id", input.ChannelID),
		attribute.Bool("answered", input.Answered)))
	defer span.End()

	thread, parent, err := s.loadThread(ctx, input.ChannelID)
	if err != nil {
		s.metrics.RecordError("mark_answered", apperrors.ToDomainError(err).Code)
		return "", failSpan(span, err)
	}

	out := s.machine.OnAnswered(thread, parent, input.Answered)
	s.record("mark_answered", out)
	if out.Err != nil {
		s.logger.Warn("cannot mark ticket", zap.String("thread_id", thread.ID), zap.Error(out.Err))
		return "", failSpan(span, out.Err)
	}
	if out.Kind == OutcomeReject {
		return out.Reason, nil
	}

	if err := s.client.EditThread(ctx, thread.ID, domain.ThreadEdit{AppliedTags: out.Tags}); err != nil {
		return "", failSpan(span, fmt.Errorf("apply tags: %w", err))
	}
	s.logger.Info("ticket marked",
		zap.String("thread_id", thread.ID),
		zap.Bool("answered", input.Answered))
	return out.Reason, nil
}

// loadThread resolves a command channel and its forum parent.
func (s *TicketService) loadThread(ctx context.Context, channelID string) (*domain.Channel, *domain.Channel, error) {
	return loadThread(ctx, s.client, channelID)
}

func loadThread(ctx context.Context, client platform.Client, channelID string) (*domain.Channel, *domain.Channel, error) {
	thread, err := client.Channel(ctx, channelID)
	if err != nil {
		return nil, nil, fmt.Errorf("get channel %s: %w", channelID, err)
	}
	if !thread.IsGuildChannel() || thread.ParentID == "" {
		return nil, nil, apperrors.NewNotAGuildChannel()
	}
	parent, err := client.Channel(ctx, thread.ParentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get parent channel %s: %w", thread.ParentID, err)
	}
	if !parent.IsGuildChannel() {
		return nil, nil, apperrors.NewNotAGuildChannel()
	}
	return thread, parent, nil
}

func (s *TicketService) record(event string, out Outcome) {
	s.metrics.RecordTransition(event, string(out.Kind))
	if out.Err != nil {
		s.metrics.RecordError(event, apperrors.ToDomainError(out.Err).Code)
	}
	if out.Kind == OutcomeNoOp && out.Err == nil {
		s.logger.Debug("no transition", zap.String("event", event), zap.String("reason", out.Reason))
	}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
