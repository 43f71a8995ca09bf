package domain

import "time"

// EmbedField is a titled block inside an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message attachment.
type Embed struct {
	Title         string
	Description   string
	Color         int
	Fields        []EmbedField
	FooterText    string
	FooterIconURL string
	Timestamp     time.Time
}

// ButtonStyle selects the visual style of a button.
type ButtonStyle string

const (
	ButtonStylePrimary   ButtonStyle = "PRIMARY"
	ButtonStyleSecondary ButtonStyle = "SECONDARY"
)

// Button is an interactive affordance attached to a message.
type Button struct {
	CustomID string
	Label    string
	Emoji    string
	Style    ButtonStyle
	Disabled bool
}

// OutgoingMessage describes a message to post into a channel or thread.
type OutgoingMessage struct {
	Content string
	Embed   *Embed
	Buttons []Button
	// ReplyToID references an existing message in the same channel.
	ReplyToID string
	// MentionAll allows the message to ping users, roles and the replied user.
	MentionAll bool
}

// ThreadEdit is an absolute update of a thread. Nil fields are left untouched.
type ThreadEdit struct {
	AppliedTags TagSet
	Locked      *bool
}
