package domain

import (
	"fmt"
	"strings"
)

// CloseReason is the terminal outcome recorded when a ticket is closed.
type CloseReason string

const (
	CloseReasonResolved       CloseReason = "resolved"
	CloseReasonDeclined       CloseReason = "declined"
	CloseReasonUnreproducible CloseReason = "unreproducible"
	CloseReasonDuplicate      CloseReason = "duplicate"
)

type closeReasonInfo struct {
	tag     TagLabel
	display string
	color   int
}

var closeReasons = map[CloseReason]closeReasonInfo{
	CloseReasonResolved:       {tag: TagResolved, display: "✅ Resolved", color: 0x53ff52},
	CloseReasonDeclined:       {tag: TagDeclined, display: "⛔ Declined", color: 0xff5252},
	CloseReasonUnreproducible: {tag: TagUnreproducible, display: "❌ Unreproducible", color: 0xffa500},
	CloseReasonDuplicate:      {tag: TagDuplicate, display: "👥 Duplicate", color: 0x1f85de},
}

// CloseReasons lists every reason in presentation order.
func CloseReasons() []CloseReason {
	return []CloseReason{
		CloseReasonResolved,
		CloseReasonDeclined,
		CloseReasonUnreproducible,
		CloseReasonDuplicate,
	}
}

// ParseCloseReason accepts the reason identifier, case-insensitively.
func ParseCloseReason(value string) (CloseReason, error) {
	reason := CloseReason(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := closeReasons[reason]; !ok {
		return "", fmt.Errorf("unknown close reason %q", value)
	}
	return reason, nil
}

// TagLabel returns the forum tag applied when closing for this reason.
func (r CloseReason) TagLabel() TagLabel {
	return closeReasons[r].tag
}

// Display returns the human readable label, emoji included.
func (r CloseReason) Display() string {
	return closeReasons[r].display
}

// Color returns the 24-bit RGB embed accent.
func (r CloseReason) Color() int {
	return closeReasons[r].color
}

func (r CloseReason) String() string {
	return r.Display()
}
