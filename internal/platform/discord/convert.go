package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/support-forum-bot/internal/domain"
)

// ToChannel converts a discordgo channel or thread.
func ToChannel(ch *discordgo.Channel) *domain.Channel {
	if ch == nil {
		return nil
	}
	out := &domain.Channel{
		ID:            ch.ID,
		GuildID:       ch.GuildID,
		Name:          ch.Name,
		Type:          channelType(ch.Type),
		ParentID:      ch.ParentID,
		OwnerID:       ch.OwnerID,
		LastMessageID: ch.LastMessageID,
	}
	if len(ch.AppliedTags) > 0 {
		out.AppliedTags = append(domain.TagSet{}, ch.AppliedTags...)
	}
	for _, tag := range ch.AvailableTags {
		out.AvailableTags = append(out.AvailableTags, domain.ForumTag{ID: tag.ID, Name: tag.Name})
	}
	if ch.ThreadMetadata != nil {
		out.Locked = ch.ThreadMetadata.Locked
	}
	return out
}

func channelType(t discordgo.ChannelType) domain.ChannelType {
	switch t {
	case discordgo.ChannelTypeGuildForum:
		return domain.ChannelTypeForum
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread:
		return domain.ChannelTypeThread
	default:
		return domain.ChannelTypeOther
	}
}

// ToUser converts a discordgo user.
func ToUser(u *discordgo.User) domain.User {
	if u == nil {
		return domain.User{}
	}
	return domain.User{
		ID:        u.ID,
		Name:      u.Username,
		AvatarURL: u.AvatarURL(""),
		Bot:       u.Bot,
	}
}

// ToMember converts a guild member. userID is used when the payload omits the user.
func ToMember(guildID, userID string, m *discordgo.Member) *domain.Member {
	if m == nil {
		return nil
	}
	if m.User != nil {
		userID = m.User.ID
	}
	if m.GuildID != "" {
		guildID = m.GuildID
	}
	return &domain.Member{
		GuildID: guildID,
		UserID:  userID,
		Roles:   append([]string{}, m.Roles...),
	}
}

// ToMessage converts an incoming message.
func ToMessage(m *discordgo.Message) domain.Message {
	if m == nil {
		return domain.Message{}
	}
	msg := domain.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Author:    ToUser(m.Author),
	}
	if m.Author != nil {
		msg.Member = ToMember(m.GuildID, m.Author.ID, m.Member)
	}
	return msg
}

func toThreadMember(guildID string, tm *discordgo.ThreadMember) domain.ThreadMember {
	return domain.ThreadMember{
		ThreadID: tm.ID,
		GuildID:  guildID,
		UserID:   tm.UserID,
		Member:   ToMember(guildID, tm.UserID, tm.Member),
	}
}

// ToMessageSend builds the discordgo payload for an outgoing message.
func ToMessageSend(channelID string, msg domain.OutgoingMessage) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
	}
	if len(msg.Buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range msg.Buttons {
			row.Components = append(row.Components, toButton(b))
		}
		send.Components = []discordgo.MessageComponent{row}
	}
	if msg.ReplyToID != "" {
		send.Reference = &discordgo.MessageReference{MessageID: msg.ReplyToID, ChannelID: channelID}
	}
	if msg.MentionAll {
		send.AllowedMentions = &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{
				discordgo.AllowedMentionTypeUsers,
				discordgo.AllowedMentionTypeRoles,
				discordgo.AllowedMentionTypeEveryone,
			},
			RepliedUser: true,
		}
	}
	return send
}

func toEmbed(e *domain.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.FooterText != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText, IconURL: e.FooterIconURL}
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return embed
}

func toButton(b domain.Button) discordgo.Button {
	style := discordgo.PrimaryButton
	if b.Style == domain.ButtonStyleSecondary {
		style = discordgo.SecondaryButton
	}
	button := discordgo.Button{
		Label:    b.Label,
		Style:    style,
		CustomID: b.CustomID,
		Disabled: b.Disabled,
	}
	if b.Emoji != "" {
		button.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
	}
	return button
}

// ToChannelEdit builds the discordgo payload for a thread edit.
func ToChannelEdit(edit domain.ThreadEdit) *discordgo.ChannelEdit {
	data := &discordgo.ChannelEdit{Locked: edit.Locked}
	if edit.AppliedTags != nil {
		tags := append([]string{}, edit.AppliedTags...)
		data.AppliedTags = &tags
	}
	return data
}
