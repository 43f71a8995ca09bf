package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/config"
	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/platform"
)

var errNoGuild = errors.New("thread member has no guild")

// MemberLookup resolves the guild membership behind a thread member.
type MemberLookup interface {
	Lookup(ctx context.Context, tm domain.ThreadMember) (*domain.Member, error)
}

// RoleCache stores member role lists between lookups.
type RoleCache interface {
	GetRoles(ctx context.Context, guildID, userID string) ([]string, bool, error)
	SetRoles(ctx context.Context, guildID, userID string, roles []string) error
}

// cachedMemberLookup answers from the membership the platform already attached.
type cachedMemberLookup struct{}

func (cachedMemberLookup) Lookup(_ context.Context, tm domain.ThreadMember) (*domain.Member, error) {
	if tm.Member == nil {
		return nil, errors.New("no cached member")
	}
	return tm.Member, nil
}

// guildMemberLookup fetches the guild and then the member over the network.
type guildMemberLookup struct {
	client platform.Client
	cache  RoleCache
	logger *zap.Logger
}

func (l guildMemberLookup) Lookup(ctx context.Context, tm domain.ThreadMember) (*domain.Member, error) {
	if tm.GuildID == "" {
		return nil, errNoGuild
	}
	if l.cache != nil {
		roles, ok, err := l.cache.GetRoles(ctx, tm.GuildID, tm.UserID)
		if err != nil {
			l.logger.Debug("role cache read failed", zap.String("user_id", tm.UserID), zap.Error(err))
		} else if ok {
			return &domain.Member{GuildID: tm.GuildID, UserID: tm.UserID, Roles: roles}, nil
		}
	}

	if _, err := l.client.Guild(ctx, tm.GuildID); err != nil {
		return nil, fmt.Errorf("get guild %s: %w", tm.GuildID, err)
	}
	member, err := l.client.GuildMember(ctx, tm.GuildID, tm.UserID)
	if err != nil {
		return nil, fmt.Errorf("get member %s: %w", tm.UserID, err)
	}

	if l.cache != nil {
		if err := l.cache.SetRoles(ctx, tm.GuildID, tm.UserID, member.Roles); err != nil {
			l.logger.Debug("role cache write failed", zap.String("user_id", tm.UserID), zap.Error(err))
		}
	}
	return member, nil
}

// RoleOracle decides whether a user holds the support role. Lookup failures
// classify the user as not support.
type RoleOracle struct {
	roleID   string
	cached   MemberLookup
	fallback MemberLookup
	logger   *zap.Logger
}

// NewRoleOracle builds an oracle for cfg.SupportRoleID. cache may be nil.
func NewRoleOracle(cfg config.DiscordConfig, client platform.Client, cache RoleCache, logger *zap.Logger) *RoleOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleOracle{
		roleID:   cfg.SupportRoleID,
		cached:   cachedMemberLookup{},
		fallback: guildMemberLookup{client: client, cache: cache, logger: logger},
		logger:   logger,
	}
}

// IsSupport classifies a thread member.
func (o *RoleOracle) IsSupport(ctx context.Context, tm domain.ThreadMember) bool {
	lookup := o.fallback
	if tm.Member != nil {
		lookup = o.cached
	}

	member, err := lookup.Lookup(ctx, tm)
	if err != nil {
		if errors.Is(err, errNoGuild) {
			return false
		}
		o.logger.Warn("could not resolve member roles",
			zap.String("user_id", tm.UserID),
			zap.String("guild_id", tm.GuildID),
			zap.Error(err))
		return false
	}
	return member.HasRole(o.roleID)
}
