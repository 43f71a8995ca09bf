// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/support-forum-bot/internal/domain"
	"github.com/spec-kit/support-forum-bot/internal/platform"
)

// SentMessage records a message posted through the fake.
type SentMessage struct {
	ID        string
	ChannelID string
	Message   domain.OutgoingMessage
}

// Fake keeps channels, guild members and thread members in memory and records
// every mutation. Errors can be injected per operation.
type Fake struct {
	mu sync.Mutex

	Channels     map[string]*domain.Channel
	Messages     map[string]bool
	Guilds       map[string]string
	Members      map[string]*domain.Member
	Participants map[string][]domain.ThreadMember

	Sent    []SentMessage
	Edits   []domain.ThreadEdit
	Removed []string

	ChannelErr       error
	GuildErr         error
	GuildMemberErr   error
	ThreadMembersErr error
	EditErr          error
	SendErr          error
	RemoveErr        map[string]error

	ChannelCalls     int
	GuildMemberCalls int
}

// New creates an empty fake.
func New() *Fake {
	return &Fake{
		Channels:     map[string]*domain.Channel{},
		Messages:     map[string]bool{},
		Guilds:       map[string]string{},
		Members:      map[string]*domain.Member{},
		Participants: map[string][]domain.ThreadMember{},
		RemoveErr:    map[string]error{},
	}
}

// AddChannel stores a copy of ch.
func (f *Fake) AddChannel(ch domain.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := ch
	c.AppliedTags = append(domain.TagSet{}, ch.AppliedTags...)
	f.Channels[ch.ID] = &c
}

// AddMember registers a guild member.
func (f *Fake) AddMember(guildID, userID string, roles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Guilds[guildID]; !ok {
		f.Guilds[guildID] = "guild-" + guildID
	}
	f.Members[guildID+"/"+userID] = &domain.Member{GuildID: guildID, UserID: userID, Roles: roles}
}

// Thread returns the current state of a stored channel.
func (f *Fake) Thread(id string) domain.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.Channels[id]; ok {
		return *ch
	}
	return domain.Channel{}
}

func (f *Fake) Channel(ctx context.Context, channelID string) (*domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ChannelCalls++
	if f.ChannelErr != nil {
		return nil, f.ChannelErr
	}
	ch, ok := f.Channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, platform.ErrNotFound)
	}
	copied := *ch
	copied.AppliedTags = append(domain.TagSet{}, ch.AppliedTags...)
	return &copied, nil
}

func (f *Fake) Message(ctx context.Context, channelID, messageID string) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Messages[channelID+"/"+messageID] {
		return nil, fmt.Errorf("message %s: %w", messageID, platform.ErrNotFound)
	}
	return &domain.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *Fake) Guild(ctx context.Context, guildID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GuildErr != nil {
		return "", f.GuildErr
	}
	name, ok := f.Guilds[guildID]
	if !ok {
		return "", fmt.Errorf("guild %s: %w", guildID, platform.ErrNotFound)
	}
	return name, nil
}

func (f *Fake) GuildMember(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GuildMemberCalls++
	if f.GuildMemberErr != nil {
		return nil, f.GuildMemberErr
	}
	member, ok := f.Members[guildID+"/"+userID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", userID, platform.ErrNotFound)
	}
	copied := *member
	return &copied, nil
}

func (f *Fake) ThreadMembers(ctx context.Context, threadID string) ([]domain.ThreadMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ThreadMembersErr != nil {
		return nil, f.ThreadMembersErr
	}
	return append([]domain.ThreadMember{}, f.Participants[threadID]...), nil
}

func (f *Fake) RemoveThreadMember(ctx context.Context, threadID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.RemoveErr[userID]; err != nil {
		return err
	}
	f.Removed = append(f.Removed, userID)
	kept := f.Participants[threadID][:0]
	for _, tm := range f.Participants[threadID] {
		if tm.UserID != userID {
			kept = append(kept, tm)
		}
	}
	f.Participants[threadID] = kept
	return nil
}

func (f *Fake) EditThread(ctx context.Context, threadID string, edit domain.ThreadEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EditErr != nil {
		return f.EditErr
	}
	ch, ok := f.Channels[threadID]
	if !ok {
		return fmt.Errorf("thread %s: %w", threadID, platform.ErrNotFound)
	}
	f.Edits = append(f.Edits, edit)
	if edit.AppliedTags != nil {
		ch.AppliedTags = append(domain.TagSet{}, edit.AppliedTags...)
	}
	if edit.Locked != nil {
		ch.Locked = *edit.Locked
	}
	return nil
}

func (f *Fake) SendMessage(ctx context.Context, channelID string, msg domain.OutgoingMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return "", f.SendErr
	}
	id := fmt.Sprintf("msg-%d", len(f.Sent)+1)
	f.Sent = append(f.Sent, SentMessage{ID: id, ChannelID: channelID, Message: msg})
	f.Messages[channelID+"/"+id] = true
	return id, nil
}

var _ platform.Client = (*Fake)(nil)
