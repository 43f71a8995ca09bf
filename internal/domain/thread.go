package domain

// ChannelType differentiates the channel kinds the bot cares about.
type ChannelType string

const (
	ChannelTypeForum  ChannelType = "FORUM"
	ChannelTypeThread ChannelType = "THREAD"
	ChannelTypeOther  ChannelType = "OTHER"
)

// Channel is a guild channel. Threads carry an owner, a parent and an applied-tag set;
// forums carry the available tags.
type Channel struct {
	ID            string
	GuildID       string
	Name          string
	Type          ChannelType
	ParentID      string
	OwnerID       string
	AppliedTags   TagSet
	AvailableTags []ForumTag
	Locked        bool
	LastMessageID string
}

// IsGuildChannel reports whether the channel belongs to a guild.
func (c *Channel) IsGuildChannel() bool {
	return c != nil && c.GuildID != ""
}

// User is a platform account.
type User struct {
	ID        string
	Name      string
	AvatarURL string
	Bot       bool
}

// Member is a user's guild membership.
type Member struct {
	GuildID string
	UserID  string
	Roles   []string
}

// HasRole reports whether the member holds roleID.
func (m *Member) HasRole(roleID string) bool {
	if m == nil {
		return false
	}
	for _, role := range m.Roles {
		if role == roleID {
			return true
		}
	}
	return false
}

// ThreadMember associates a user with a thread. Member is nil when the platform
// did not include the guild membership in the payload.
type ThreadMember struct {
	ThreadID string
	GuildID  string
	UserID   string
	Member   *Member
}

// Message is a posted message, reduced to what ticket handling reads.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Author    User
	Member    *Member
}
