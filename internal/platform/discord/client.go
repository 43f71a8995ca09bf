package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/platform"
)

const threadMembersPageSize = 100

// Client implements platform.Client over the Discord REST API.
type Client struct {
	session *discordgo.Session
}

// NewClient wraps an authenticated session.
func NewClient(session *discordgo.Session) *Client {
	return &Client{session: session}
}

// Channel answers from the gateway state when it holds the channel and falls back to REST.
func (c *Client) Channel(ctx context.Context, channelID string) (*domain.Channel, error) {
	if ch := c.cachedChannel(channelID); ch != nil {
		return ch, nil
	}
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return ToChannel(ch), nil
}

func (c *Client) cachedChannel(channelID string) *domain.Channel {
	state := c.session.State
	if state == nil || !c.session.StateEnabled {
		return nil
	}
	ch, err := state.Channel(channelID)
	if err != nil {
		return nil
	}
	state.RLock()
	defer state.RUnlock()
	return ToChannel(ch)
}

func (c *Client) Message(ctx context.Context, channelID, messageID string) (*domain.Message, error) {
	m, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	msg := ToMessage(m)
	return &msg, nil
}

func (c *Client) Guild(ctx context.Context, guildID string) (string, error) {
	g, err := c.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError(err)
	}
	return g.Name, nil
}

func (c *Client) GuildMember(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	m, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return ToMember(guildID, userID, m), nil
}

// ThreadMembers pages through every member of the thread, guild membership included.
func (c *Client) ThreadMembers(ctx context.Context, threadID string) ([]domain.ThreadMember, error) {
	ch, err := c.Channel(ctx, threadID)
	if err != nil {
		return nil, err
	}

	var out []domain.ThreadMember
	after := ""
	for {
		page, err := c.session.ThreadMembers(threadID, threadMembersPageSize, true, after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(err)
		}
		for _, tm := range page {
			out = append(out, toThreadMember(ch.GuildID, tm))
		}
		if len(page) < threadMembersPageSize {
			return out, nil
		}
		after = page[len(page)-1].UserID
	}
}

func (c *Client) RemoveThreadMember(ctx context.Context, threadID, userID string) error {
	return mapError(c.session.ThreadMemberRemove(threadID, userID, discordgo.WithContext(ctx)))
}

func (c *Client) EditThread(ctx context.Context, threadID string, edit domain.ThreadEdit) error {
	_, err := c.session.ChannelEditComplex(threadID, ToChannelEdit(edit), discordgo.WithContext(ctx))
	return mapError(err)
}

func (c *Client) SendMessage(ctx context.Context, channelID string, msg domain.OutgoingMessage) (string, error) {
	sent, err := c.session.ChannelMessageSendComplex(channelID, ToMessageSend(channelID, msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError(err)
	}
	return sent.ID, nil
}

// mapError tags 404 responses with platform.ErrNotFound.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", platform.ErrNotFound, err)
	}
	return err
}

var _ platform.Client = (*Client)(nil)
