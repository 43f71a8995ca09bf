package service

import (
	"github.com/spec-kit/support-forum-bot/internal/config"
	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/platform/platformtest"
)

const (
	guildID     = "g1"
	forumID     = "forum"
	roleID      = "role-support"
	ownerID     = "owner"
	threadID    = "thread"
	supportUser = "helper"
)

var testConfig = config.DiscordConfig{
	GuildID:        guildID,
	ForumChannelID: forumID,
	SupportRoleID:  roleID,
}

func forumTags() []domain.ForumTag {
	return []domain.ForumTag{
		{ID: "t-support", Name: "Support"},
		{ID: "t-pending", Name: "Pending"},
		{ID: "t-answered", Name: "Answered"},
		{ID: "t-resolved", Name: "Resolved"},
		{ID: "t-declined", Name: "Declined"},
		{ID: "t-unrepro", Name: "Unreproducible"},
		{ID: "t-duplicate", Name: "Duplicate"},
		{ID: "t-suggestion", Name: "Suggestion"},
	}
}

func forum() domain.Channel {
	return domain.Channel{
		ID:            forumID,
		GuildID:       guildID,
		Type:          domain.ChannelTypeForum,
		AvailableTags: forumTags(),
	}
}

func ticket(tags ...string) domain.Channel {
	return domain.Channel{
		ID:          threadID,
		GuildID:     guildID,
		Name:        "my plugin crashes",
		Type:        domain.ChannelTypeThread,
		ParentID:    forumID,
		OwnerID:     ownerID,
		AppliedTags: domain.TagSet(tags),
	}
}

// newFake returns a platform with the forum, one ticket and a support member.
func newFake(tags ...string) *platformtest.Fake {
	fake := platformtest.New()
	fake.AddChannel(forum())
	fake.AddChannel(ticket(tags...))
	fake.AddMember(guildID, supportUser, roleID)
	fake.AddMember(guildID, ownerID)
	return fake
}
