package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/support-forum-bot/internal/domain"
)

func TestToChannelThread(t *testing.T) {
	ch := &discordgo.Channel{
		ID:             "thread",
		GuildID:        "g1",
		Type:           discordgo.ChannelTypeGuildPublicThread,
		ParentID:       "forum",
		OwnerID:        "owner",
		AppliedTags:    []string{"t1", "t2"},
		LastMessageID:  "m1",
		ThreadMetadata: &discordgo.ThreadMetadata{Locked: true},
	}

	got := ToChannel(ch)
	if got.Type != domain.ChannelTypeThread {
		t.Fatalf("expected thread type, got %s", got.Type)
	}
	if !got.Locked {
		t.Fatalf("expected locked thread")
	}
	if !got.AppliedTags.Equal(domain.TagSet{"t2", "t1"}) {
		t.Fatalf("unexpected applied tags: %v", got.AppliedTags)
	}
	if got.ParentID != "forum" || got.OwnerID != "owner" || got.LastMessageID != "m1" {
		t.Fatalf("unexpected thread fields: %+v", got)
	}

	ch.AppliedTags[0] = "changed"
	if got.AppliedTags[0] != "t1" {
		t.Fatalf("applied tags share the source slice")
	}
}

func TestToChannelForum(t *testing.T) {
	got := ToChannel(&discordgo.Channel{
		ID:      "forum",
		GuildID: "g1",
		Type:    discordgo.ChannelTypeGuildForum,
		AvailableTags: []discordgo.ForumTag{
			{ID: "t-support", Name: "Support"},
			{ID: "t-pending", Name: "Pending"},
		},
	})
	if got.Type != domain.ChannelTypeForum {
		t.Fatalf("expected forum type, got %s", got.Type)
	}
	if len(got.AvailableTags) != 2 || got.AvailableTags[1] != (domain.ForumTag{ID: "t-pending", Name: "Pending"}) {
		t.Fatalf("unexpected available tags: %v", got.AvailableTags)
	}
	if ToChannel(nil) != nil {
		t.Fatalf("expected nil for nil channel")
	}
}

func TestToMessage(t *testing.T) {
	msg := ToMessage(&discordgo.Message{
		ID:        "m1",
		ChannelID: "thread",
		GuildID:   "g1",
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
		Member:    &discordgo.Member{Roles: []string{"r1"}},
	})
	if msg.Author.ID != "u1" || msg.Author.Name != "alice" {
		t.Fatalf("unexpected author: %+v", msg.Author)
	}
	if msg.Member == nil || msg.Member.UserID != "u1" || msg.Member.GuildID != "g1" || !msg.Member.HasRole("r1") {
		t.Fatalf("unexpected member: %+v", msg.Member)
	}

	noMember := ToMessage(&discordgo.Message{ID: "m2", Author: &discordgo.User{ID: "u2", Bot: true}})
	if noMember.Member != nil || !noMember.Author.Bot {
		t.Fatalf("unexpected message: %+v", noMember)
	}
}

func TestToMessageSend(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	send := ToMessageSend("thread", domain.OutgoingMessage{
		Content: "<@&role>",
		Embed: &domain.Embed{
			Title:      "Ticket Closed",
			Color:      0x53ff52,
			Fields:     []domain.EmbedField{{Name: "Reason", Value: "Resolved"}},
			FooterText: "Closed by helper",
			Timestamp:  ts,
		},
		Buttons:    []domain.Button{{CustomID: "reopen_ticket", Label: "Reopen", Emoji: "🔓", Style: domain.ButtonStyleSecondary}},
		ReplyToID:  "m1",
		MentionAll: true,
	})

	if send.Content != "<@&role>" {
		t.Fatalf("unexpected content %q", send.Content)
	}
	if len(send.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(send.Embeds))
	}
	embed := send.Embeds[0]
	if embed.Timestamp != "2024-05-01T12:00:00Z" || embed.Footer == nil || embed.Footer.Text != "Closed by helper" {
		t.Fatalf("unexpected embed: %+v", embed)
	}
	if len(embed.Fields) != 1 || embed.Fields[0].Value != "Resolved" {
		t.Fatalf("unexpected fields: %+v", embed.Fields)
	}

	if len(send.Components) != 1 {
		t.Fatalf("expected one component row, got %d", len(send.Components))
	}
	row, ok := send.Components[0].(discordgo.ActionsRow)
	if !ok || len(row.Components) != 1 {
		t.Fatalf("unexpected components: %#v", send.Components)
	}
	button := row.Components[0].(discordgo.Button)
	if button.CustomID != "reopen_ticket" || button.Style != discordgo.SecondaryButton || button.Emoji == nil || button.Emoji.Name != "🔓" {
		t.Fatalf("unexpected button: %+v", button)
	}

	if send.Reference == nil || send.Reference.MessageID != "m1" || send.Reference.ChannelID != "thread" {
		t.Fatalf("unexpected reference: %+v", send.Reference)
	}
	if send.AllowedMentions == nil || len(send.AllowedMentions.Parse) != 3 {
		t.Fatalf("unexpected allowed mentions: %+v", send.AllowedMentions)
	}
}

func TestToMessageSendPlain(t *testing.T) {
	send := ToMessageSend("thread", domain.OutgoingMessage{Content: "hi"})
	if send.Embeds != nil || send.Components != nil || send.Reference != nil || send.AllowedMentions != nil {
		t.Fatalf("expected bare message, got %+v", send)
	}
}

func TestToChannelEdit(t *testing.T) {
	locked := true
	edit := ToChannelEdit(domain.ThreadEdit{AppliedTags: domain.TagSet{"t-resolved"}, Locked: &locked})
	if edit.AppliedTags == nil || len(*edit.AppliedTags) != 1 || (*edit.AppliedTags)[0] != "t-resolved" {
		t.Fatalf("unexpected tags: %v", edit.AppliedTags)
	}
	if edit.Locked == nil || !*edit.Locked {
		t.Fatalf("expected locked")
	}

	untouched := ToChannelEdit(domain.ThreadEdit{})
	if untouched.AppliedTags != nil || untouched.Locked != nil {
		t.Fatalf("expected untouched edit, got %+v", untouched)
	}
}
