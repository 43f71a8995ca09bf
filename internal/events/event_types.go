package events

import (
	"time"

	"github.com/spec-kit/support-forum-bot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventThreadCreated   EventType = "thread_created"
	EventMessageReceived EventType = "message_received"
)

// Event is a platform notification delivered to the ticket handlers.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	ChannelID string      `json:"channel_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ThreadCreatedPayload carries the thread exactly as the platform reported it.
type ThreadCreatedPayload struct {
	Thread domain.Channel `json:"thread"`
}

// MessageReceivedPayload carries the new message.
type MessageReceivedPayload struct {
	Message domain.Message `json:"message"`
}
