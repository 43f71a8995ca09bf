package platform

import (
	"context"
	"errors"

	"github.com/spec-kit/support-forum-bot/internal/domain"
)

// ErrNotFound is returned when the platform has no record of the requested object.
var ErrNotFound = errors.New("platform: not found")

// Client is the set of outbound calls the ticket handling needs from the chat platform.
type Client interface {
	Channel(ctx context.Context, channelID string) (*domain.Channel, error)
	Message(ctx context.Context, channelID, messageID string) (*domain.Message, error)
	Guild(ctx context.Context, guildID string) (string, error)
	GuildMember(ctx context.Context, guildID, userID string) (*domain.Member, error)
	ThreadMembers(ctx context.Context, threadID string) ([]domain.ThreadMember, error)
	RemoveThreadMember(ctx context.Context, threadID, userID string) error
	EditThread(ctx context.Context, threadID string, edit domain.ThreadEdit) error
	SendMessage(ctx context.Context, channelID string, msg domain.OutgoingMessage) (string, error)
}
