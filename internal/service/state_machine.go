package service

import (
	"fmt"
	"time"

	"github.com/spec-kit/support-forum-bot/internal/config"
	"github.com/spec-kit/support-forum-bot/internal/domain"
)

// OutcomeKind tags the result of a transition decision.
type OutcomeKind string

const (
	OutcomeNoOp               OutcomeKind = "noop"
	OutcomeApplyTags          OutcomeKind = "apply_tags"
	OutcomeApplyTagsAndNotify OutcomeKind = "apply_tags_and_notify"
	OutcomeReject             OutcomeKind = "reject"
)

// Outcome is what the state machine wants done to a thread.
// Err is set when the transition was aborted by a missing forum tag.
type Outcome struct {
	Kind   OutcomeKind
	Tags   domain.TagSet
	Notify *domain.OutgoingMessage
	Reason string
	Err    error
}

func noop(reason string) Outcome {
	return Outcome{Kind: OutcomeNoOp, Reason: reason}
}

func aborted(err error) Outcome {
	return Outcome{Kind: OutcomeNoOp, Reason: "tag missing", Err: err}
}

// StateMachine holds the tag transition rules for ticket threads in the configured forum.
// It never talks to the platform: callers pass in the thread, its parent and a classifier.
type StateMachine struct {
	cfg config.DiscordConfig
	now func() time.Time
}

// NewStateMachine builds the decision rules for cfg.
func NewStateMachine(cfg config.DiscordConfig) *StateMachine {
	return &StateMachine{cfg: cfg, now: time.Now}
}

func (m *StateMachine) inForum(parent *domain.Channel) bool {
	return parent.IsGuildChannel() && parent.ID == m.cfg.ForumChannelID
}

// OnThreadCreated tags a fresh ticket {support, pending} and greets its owner.
// Threads that already carry tags were seen before (e.g. reopened) and are skipped.
func (m *StateMachine) OnThreadCreated(thread, parent *domain.Channel) Outcome {
	if thread == nil || len(thread.AppliedTags) > 0 {
		return noop("thread already tagged")
	}
	if thread.ParentID == "" || parent == nil {
		return noop("thread has no parent")
	}
	if !m.inForum(parent) {
		return noop("thread outside support forum")
	}

	ids, err := ResolveTags(parent.AvailableTags, domain.TagSupport, domain.TagPending)
	if err != nil {
		return aborted(err)
	}
	out := Outcome{Kind: OutcomeApplyTags, Tags: domain.TagSet(ids), Reason: "new ticket"}
	if thread.OwnerID == "" {
		return out
	}
	welcome := welcomeMessage(thread.OwnerID, m.cfg.SupportRoleID, m.now())
	out.Kind = OutcomeApplyTagsAndNotify
	out.Notify = &welcome
	return out
}

// OnMessage flips a support ticket between pending and answered depending on who
// wrote the message. isSupport is only consulted once every guard has passed.
func (m *StateMachine) OnMessage(msg domain.Message, thread, parent *domain.Channel, isSupport func() bool) Outcome {
	if msg.Author.Bot {
		return noop("bot author")
	}
	if !thread.IsGuildChannel() || thread.ParentID == "" || parent == nil {
		return noop("not a thread")
	}
	if !m.inForum(parent) {
		return noop("thread outside support forum")
	}

	supportIDs, err := ResolveTags(parent.AvailableTags, domain.TagSupport)
	if err != nil {
		return aborted(err)
	}
	supportID := supportIDs[0]
	if !thread.AppliedTags.Contains(supportID) {
		return noop("not a support ticket")
	}
	if hasCloseTag(thread.AppliedTags, parent.AvailableTags) {
		return noop("ticket closed")
	}

	ids, err := ResolveTags(parent.AvailableTags, domain.TagAnswered, domain.TagPending)
	if err != nil {
		return aborted(err)
	}
	answeredID, pendingID := ids[0], ids[1]

	if isSupport() {
		return Outcome{Kind: OutcomeApplyTags, Tags: domain.TagSet{supportID, answeredID}, Reason: "answered"}
	}
	return Outcome{Kind: OutcomeApplyTags, Tags: domain.TagSet{supportID, pendingID}, Reason: "pending"}
}

// OnAnswered handles the explicit support_answering command. Threads without the
// support tag are rejected untouched.
func (m *StateMachine) OnAnswered(thread, parent *domain.Channel, answered bool) Outcome {
	supportIDs, err := ResolveTags(parent.AvailableTags, domain.TagSupport)
	if err != nil {
		return aborted(err)
	}
	supportID := supportIDs[0]
	if !thread.AppliedTags.Contains(supportID) {
		return Outcome{
			Kind:   OutcomeReject,
			Reason: fmt.Sprintf("Cannot mark post as %s, as it is not a support ticket.", answeredStateLabel(answered)),
		}
	}

	target := domain.TagPending
	if answered {
		target = domain.TagAnswered
	}
	targetIDs, err := ResolveTags(parent.AvailableTags, target)
	if err != nil {
		return aborted(err)
	}
	return Outcome{
		Kind:   OutcomeApplyTags,
		Tags:   domain.TagSet{supportID, targetIDs[0]},
		Reason: fmt.Sprintf("Marked post as %s.", answeredStateLabel(answered)),
	}
}
