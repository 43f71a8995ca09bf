package service

import (
	"strings"
	"testing"

	"github.com/spec-kit/support-forum-bot/internal/domain"
	apperrors "github.com/spec-kit/support-forum-bot/pkg/util/errorutil"
)

func always(v bool) func() bool { return func() bool { return v } }

func TestOnThreadCreatedTagsAndWelcomes(t *testing.T) {
	m := NewStateMachine(testConfig)
	th, parent := ticket(), forum()

	out := m.OnThreadCreated(&th, &parent)
	if out.Kind != OutcomeApplyTagsAndNotify {
		t.Fatalf("expected apply+notify, got %s (%s)", out.Kind, out.Reason)
	}
	if !out.Tags.Equal(domain.TagSet{"t-support", "t-pending"}) {
		t.Fatalf("unexpected tags %v", out.Tags)
	}
	if out.Notify == nil || !strings.Contains(out.Notify.Embed.Description, "<@owner>") {
		t.Fatalf("expected welcome addressed to owner, got %+v", out.Notify)
	}
	if out.Notify.Content != "<@&"+roleID+">" {
		t.Fatalf("expected support role ping, got %q", out.Notify.Content)
	}
}

func TestOnThreadCreatedSkips(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()
	other := forum()
	other.ID = "general"

	tagged := ticket("t-resolved")
	orphan := ticket()
	orphan.ParentID = ""
	outside := ticket()
	outside.ParentID = other.ID

	tests := []struct {
		name   string
		thread domain.Channel
		parent *domain.Channel
	}{
		{"already tagged", tagged, &parent},
		{"no parent", orphan, nil},
		{"other forum", outside, &other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.OnThreadCreated(&tt.thread, tt.parent)
			if out.Kind != OutcomeNoOp || out.Notify != nil || out.Tags != nil {
				t.Fatalf("expected noop, got %+v", out)
			}
		})
	}
}

func TestOnThreadCreatedAbortsWithoutTags(t *testing.T) {
	m := NewStateMachine(testConfig)
	th := ticket()
	parent := forum()
	parent.AvailableTags = []domain.ForumTag{{ID: "t-support", Name: "support"}}

	out := m.OnThreadCreated(&th, &parent)
	if out.Kind != OutcomeNoOp || out.Notify != nil {
		t.Fatalf("expected aborted noop, got %+v", out)
	}
	if !apperrors.IsCode(out.Err, apperrors.CodeTagNotFound) {
		t.Fatalf("expected tag not found, got %v", out.Err)
	}
}

func TestOnThreadCreatedWithoutOwnerOnlyTags(t *testing.T) {
	m := NewStateMachine(testConfig)
	th, parent := ticket(), forum()
	th.OwnerID = ""

	out := m.OnThreadCreated(&th, &parent)
	if out.Kind != OutcomeApplyTags || out.Notify != nil {
		t.Fatalf("expected tags without welcome, got %+v", out)
	}
}

func TestOnMessageClassifiesAuthor(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()
	msg := domain.Message{ChannelID: threadID, Author: domain.User{ID: "someone"}}

	th := ticket("t-support", "t-pending")
	out := m.OnMessage(msg, &th, &parent, always(true))
	if !out.Tags.Equal(domain.TagSet{"t-support", "t-answered"}) {
		t.Fatalf("expected answered, got %v", out.Tags)
	}

	th = ticket("t-support", "t-answered")
	out = m.OnMessage(msg, &th, &parent, always(false))
	if !out.Tags.Equal(domain.TagSet{"t-support", "t-pending"}) {
		t.Fatalf("expected pending, got %v", out.Tags)
	}
}

func TestOnMessageKeepsOneStatusTag(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()
	msg := domain.Message{Author: domain.User{ID: "someone"}}
	th := ticket("t-support", "t-pending")

	for i, support := range []bool{true, false, true, true, false} {
		out := m.OnMessage(msg, &th, &parent, always(support))
		th.AppliedTags = out.Tags
		status := 0
		for _, id := range th.AppliedTags {
			if id == "t-pending" || id == "t-answered" {
				status++
			}
		}
		if status != 1 || !th.AppliedTags.Contains("t-support") {
			t.Fatalf("step %d: invalid tag set %v", i, th.AppliedTags)
		}
	}
}

func TestOnMessageGuards(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()
	other := forum()
	other.ID = "general"

	human := domain.Message{Author: domain.User{ID: "someone"}}
	bot := domain.Message{Author: domain.User{ID: "bot", Bot: true}}

	tests := []struct {
		name   string
		msg    domain.Message
		thread domain.Channel
		parent *domain.Channel
	}{
		{"bot author", bot, ticket("t-support", "t-pending"), &parent},
		{"other forum", human, ticket("t-support", "t-pending"), &other},
		{"no support tag", human, ticket("t-suggestion"), &parent},
		{"closed", human, ticket("t-support", "t-resolved"), &parent},
		{"dm channel", human, domain.Channel{ID: "dm"}, &parent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := false
			out := m.OnMessage(tt.msg, &tt.thread, tt.parent, func() bool {
				classified = true
				return true
			})
			if out.Kind != OutcomeNoOp {
				t.Fatalf("expected noop, got %+v", out)
			}
			if classified {
				t.Fatalf("classifier must not run when a guard fails")
			}
		})
	}
}

func TestOnMessageMissingStatusTag(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()
	parent.AvailableTags = []domain.ForumTag{{ID: "t-support", Name: "Support"}, {ID: "t-pending", Name: "Pending"}}
	th := ticket("t-support", "t-pending")

	out := m.OnMessage(domain.Message{Author: domain.User{ID: "x"}}, &th, &parent, always(true))
	if out.Kind != OutcomeNoOp || !apperrors.IsCode(out.Err, apperrors.CodeTagNotFound) {
		t.Fatalf("expected abort on missing answered tag, got %+v", out)
	}
}

func TestOnAnswered(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()

	th := ticket("t-support", "t-pending")
	out := m.OnAnswered(&th, &parent, true)
	if out.Kind != OutcomeApplyTags || !out.Tags.Equal(domain.TagSet{"t-support", "t-answered"}) {
		t.Fatalf("expected answered tags, got %+v", out)
	}
	if out.Reason != "Marked post as **Answered**." {
		t.Fatalf("unexpected reply %q", out.Reason)
	}

	out = m.OnAnswered(&th, &parent, false)
	if !out.Tags.Equal(domain.TagSet{"t-support", "t-pending"}) {
		t.Fatalf("expected pending tags, got %v", out.Tags)
	}
}

func TestOnAnsweredRejectsNonSupport(t *testing.T) {
	m := NewStateMachine(testConfig)
	parent := forum()
	th := ticket("t-suggestion")

	out := m.OnAnswered(&th, &parent, true)
	if out.Kind != OutcomeReject || out.Tags != nil {
		t.Fatalf("expected rejection, got %+v", out)
	}
	if !strings.Contains(out.Reason, "not a support ticket") {
		t.Fatalf("unexpected rejection message %q", out.Reason)
	}
}
