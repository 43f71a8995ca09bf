package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/platform/platformtest"
)

type mapRoleCache struct {
	roles  map[string][]string
	getErr error
}

func (c *mapRoleCache) GetRoles(_ context.Context, guild, user string) ([]string, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	roles, ok := c.roles[guild+"/"+user]
	return roles, ok, nil
}

func (c *mapRoleCache) SetRoles(_ context.Context, guild, user string, roles []string) error {
	if c.roles == nil {
		c.roles = map[string][]string{}
	}
	c.roles[guild+"/"+user] = roles
	return nil
}

func TestIsSupportUsesCachedMember(t *testing.T) {
	fake := platformtest.New()
	oracle := NewRoleOracle(testConfig, fake, nil, nil)

	tm := domain.ThreadMember{GuildID: guildID, UserID: "u", Member: &domain.Member{Roles: []string{"x", roleID}}}
	if !oracle.IsSupport(context.Background(), tm) {
		t.Fatalf("expected cached member to be support")
	}
	if fake.GuildMemberCalls != 0 {
		t.Fatalf("expected no network lookup, got %d", fake.GuildMemberCalls)
	}

	tm.Member = &domain.Member{Roles: []string{"x"}}
	if oracle.IsSupport(context.Background(), tm) {
		t.Fatalf("expected member without role to not be support")
	}
}

func TestIsSupportFetchesMember(t *testing.T) {
	fake := platformtest.New()
	fake.AddMember(guildID, supportUser, roleID)
	fake.AddMember(guildID, ownerID)
	oracle := NewRoleOracle(testConfig, fake, nil, nil)

	if !oracle.IsSupport(context.Background(), domain.ThreadMember{GuildID: guildID, UserID: supportUser}) {
		t.Fatalf("expected fetched helper to be support")
	}
	if oracle.IsSupport(context.Background(), domain.ThreadMember{GuildID: guildID, UserID: ownerID}) {
		t.Fatalf("expected owner to not be support")
	}
	if fake.GuildMemberCalls != 2 {
		t.Fatalf("expected 2 member fetches, got %d", fake.GuildMemberCalls)
	}
}

func TestIsSupportDegradesToFalse(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *platformtest.Fake)
		tm    domain.ThreadMember
	}{
		{
			name: "no guild id",
			tm:   domain.ThreadMember{UserID: supportUser},
		},
		{
			name:  "guild fetch fails",
			setup: func(f *platformtest.Fake) { f.GuildErr = errors.New("503") },
			tm:    domain.ThreadMember{GuildID: guildID, UserID: supportUser},
		},
		{
			name:  "member fetch fails",
			setup: func(f *platformtest.Fake) { f.GuildMemberErr = errors.New("timeout") },
			tm:    domain.ThreadMember{GuildID: guildID, UserID: supportUser},
		},
		{
			name: "unknown member",
			tm:   domain.ThreadMember{GuildID: guildID, UserID: "ghost"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := platformtest.New()
			fake.AddMember(guildID, supportUser, roleID)
			if tt.setup != nil {
				tt.setup(fake)
			}
			oracle := NewRoleOracle(testConfig, fake, nil, nil)
			if oracle.IsSupport(context.Background(), tt.tm) {
				t.Fatalf("expected not support")
			}
		})
	}
}

func TestIsSupportUsesRoleCache(t *testing.T) {
	fake := platformtest.New()
	fake.AddMember(guildID, supportUser, roleID)
	cache := &mapRoleCache{}
	oracle := NewRoleOracle(testConfig, fake, cache, nil)
	tm := domain.ThreadMember{GuildID: guildID, UserID: supportUser}

	for i := 0; i < 3; i++ {
		if !oracle.IsSupport(context.Background(), tm) {
			t.Fatalf("attempt %d: expected support", i)
		}
	}
	if fake.GuildMemberCalls != 1 {
		t.Fatalf("expected a single network fetch, got %d", fake.GuildMemberCalls)
	}
}

func TestIsSupportIgnoresBrokenCache(t *testing.T) {
	fake := platformtest.New()
	fake.AddMember(guildID, supportUser, roleID)
	cache := &mapRoleCache{getErr: errors.New("redis down")}
	oracle := NewRoleOracle(testConfig, fake, cache, nil)

	if !oracle.IsSupport(context.Background(), domain.ThreadMember{GuildID: guildID, UserID: supportUser}) {
		t.Fatalf("expected network fallback to classify support")
	}
	if fake.GuildMemberCalls != 1 {
		t.Fatalf("expected network fetch, got %d", fake.GuildMemberCalls)
	}
}
