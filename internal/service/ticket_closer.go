package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/observability"
	"github.com/spec-kit/support-forum-bot/internal/platform"
	apperrors "github.com/spec-kit/support-forum-bot/pkg/util/errorutil"
)

// CloseInput describes a close_ticket invocation.
type CloseInput struct {
	ChannelID   string
	Reason      domain.CloseReason
	AllowReopen bool
	Closer      domain.User
}

// TicketCloser performs the terminal transition of a ticket.
type TicketCloser struct {
	client  platform.Client
	oracle  *RoleOracle
	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewTicketCloser reuses the ticket dependencies.
func NewTicketCloser(deps TicketDependencies) *TicketCloser {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	oracle := deps.Oracle
	if oracle == nil {
		oracle = NewRoleOracle(deps.Config, deps.Client, nil, logger)
	}
	return &TicketCloser{
		client:  deps.Client,
		oracle:  oracle,
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  otel.Tracer(observability.TracerName),
		now:     time.Now,
	}
}

// ClosePlan is the resolved set of mutations for a close.
type ClosePlan struct {
	TagID  string
	Locked bool
	Notice domain.OutgoingMessage
}

// PlanClose validates the thread and resolves the close tag without side effects.
func PlanClose(thread, parent *domain.Channel, input CloseInput, now time.Time) (ClosePlan, error) {
	if thread.OwnerID == "" {
		return ClosePlan{}, apperrors.NewNotAThreadChannel()
	}
	ids, err := ResolveTags(parent.AvailableTags, input.Reason.TagLabel())
	if err != nil {
		return ClosePlan{}, err
	}
	return ClosePlan{
		TagID:  ids[0],
		Locked: !input.AllowReopen,
		Notice: closureNotice(thread.OwnerID, input.Reason, input.Closer, input.AllowReopen, now),
	}, nil
}

// Close posts the closure notice, evicts support members and applies the close tag.
// A missing close tag leaves the thread untouched and returns TAG_NOT_FOUND.
func (c *TicketCloser) Close(ctx context.Context, input CloseInput) error {
	ctx, span := c.tracer.Start(ctx, "ticket.close", trace.WithAttributes(
		attribute.String("thread.id", input.ChannelID),
		attribute.String("close.reason", string(input.Reason)),
		attribute.Bool("close.allow_reopen", input.AllowReopen)))
	defer span.End()

	if err := c.close(ctx, input); err != nil {
		c.metrics.RecordError("close", apperrors.ToDomainError(err).Code)
		return failSpan(span, err)
	}
	c.metrics.RecordTransition("close", string(input.Reason))
	return nil
}

func (c *TicketCloser) close(ctx context.Context, input CloseInput) error {
	thread, parent, err := loadThread(ctx, c.client, input.ChannelID)
	if err != nil {
		return err
	}

	plan, err := PlanClose(thread, parent, input, c.now())
	if err != nil {
		return err
	}

	if _, err := c.client.SendMessage(ctx, thread.ID, plan.Notice); err != nil {
		return fmt.Errorf("send close notice: %w", err)
	}

	if err := c.removeSupportMembers(ctx, thread); err != nil {
		c.logger.Warn("could not remove members from thread", zap.String("thread_id", thread.ID), zap.Error(err))
	}

	locked := plan.Locked
	edit := domain.ThreadEdit{AppliedTags: domain.TagSet{plan.TagID}, Locked: &locked}
	if err := c.client.EditThread(ctx, thread.ID, edit); err != nil {
		return fmt.Errorf("apply close tag: %w", err)
	}

	c.logger.Info("ticket closed",
		zap.String("thread_id", thread.ID),
		zap.String("reason", string(input.Reason)),
		zap.Bool("locked", locked),
		zap.String("closed_by", input.Closer.ID))
	return nil
}

// removeSupportMembers evicts every support-role member. Per-member failures are
// logged and skipped.
func (c *TicketCloser) removeSupportMembers(ctx context.Context, thread *domain.Channel) error {
	members, err := c.client.ThreadMembers(ctx, thread.ID)
	if err != nil {
		return fmt.Errorf("list thread members: %w", err)
	}
	for _, tm := range members {
		if tm.GuildID == "" {
			tm.GuildID = thread.GuildID
		}
		if !c.oracle.IsSupport(ctx, tm) {
			continue
		}
		if err := c.client.RemoveThreadMember(ctx, thread.ID, tm.UserID); err != nil {
			c.logger.Warn("could not remove member from thread",
				zap.String("thread_id", thread.ID),
				zap.String("user_id", tm.UserID),
				zap.Error(err))
		}
	}
	return nil
}
