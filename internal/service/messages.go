package service

import (
	"fmt"
	"time"

	"github.com/spec-kit/support-forum-bot/internal/domain"
)

const (
	// ReopenButtonID is the custom id of the button attached to reopenable closures.
	ReopenButtonID = "reopen_ticket"

	colorBlue = 0x3498db
)

func userMention(id string) string {
	return fmt.Sprintf("<@%s>", id)
}

func roleMention(id string) string {
	return fmt.Sprintf("<@&%s>", id)
}

func welcomeMessage(ownerID, supportRoleID string, now time.Time) domain.OutgoingMessage {
	return domain.OutgoingMessage{
		Content: roleMention(supportRoleID),
		Embed: &domain.Embed{
			Title: "Support & Suggestions 🎫",
			Description: fmt.Sprintf("Hello %s! Whether you're seeking help or suggesting improvements, we're here to listen.",
				userMention(ownerID)),
			Color: colorBlue,
			Fields: []domain.EmbedField{
				{
					Name: "For Support Tickets:",
					Value: "• The more details you provide, the faster we can help\n" +
						"• Upload your `logs/latest.log` to [McLogs](https://mclo.gs/) - even with no errors, this helps with context\n" +
						"• Detail the steps to reproduce the issue",
				},
				{
					Name: "For Suggestions:",
					Value: "• Explain the problem your suggestion solves\n" +
						"• Describe how it would benefit other users\n" +
						"• Consider potential downsides or conflicts",
				},
			},
			Timestamp: now,
		},
	}
}

func closureNotice(ownerID string, reason domain.CloseReason, closer domain.User, allowReopen bool, now time.Time) domain.OutgoingMessage {
	description := "This ticket has been closed."
	if allowReopen {
		description += "\n\n*If you feel like this was a mistake, click the button below to reopen the ticket.*"
	}

	msg := domain.OutgoingMessage{
		Content: userMention(ownerID),
		Embed: &domain.Embed{
			Title:       "Ticket Closed",
			Description: description,
			Color:       reason.Color(),
			Fields: []domain.EmbedField{
				{Name: "Reason", Value: reason.Display()},
			},
			FooterText:    "Closed by " + closer.Name,
			FooterIconURL: closer.AvatarURL,
			Timestamp:     now,
		},
	}
	if allowReopen {
		msg.Buttons = []domain.Button{{
			CustomID: ReopenButtonID,
			Label:    "Reopen Ticket",
			Emoji:    "🔓",
			Style:    domain.ButtonStyleSecondary,
		}}
	}
	return msg
}

func answeredStateLabel(answered bool) string {
	if answered {
		return "**Answered**"
	}
	return "_**Pending**_"
}

// MarkingMessage is the acknowledgement shown while support_answering runs.
func MarkingMessage(answered bool) string {
	return fmt.Sprintf("Marking post as %s.", answeredStateLabel(answered))
}
