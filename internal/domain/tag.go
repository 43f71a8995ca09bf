package domain

import "strings"

// TagLabel enumerates the forum tag names the bot understands.
type TagLabel string

const (
	TagSupport        TagLabel = "support"
	TagPending        TagLabel = "pending"
	TagAnswered       TagLabel = "answered"
	TagResolved       TagLabel = "resolved"
	TagDeclined       TagLabel = "declined"
	TagUnreproducible TagLabel = "unreproducible"
	TagDuplicate      TagLabel = "duplicate"
)

// ForumTag is one of the tags configured on a forum channel.
type ForumTag struct {
	ID   string
	Name string
}

// Matches reports whether the tag's display name equals label, ignoring case.
func (t ForumTag) Matches(label TagLabel) bool {
	return strings.EqualFold(strings.TrimSpace(t.Name), string(label))
}

// IsCloseTag reports whether the tag marks a closed ticket.
func IsCloseTag(tag ForumTag) bool {
	for _, reason := range CloseReasons() {
		if tag.Matches(reason.TagLabel()) {
			return true
		}
	}
	return false
}

// TagSet is an applied-tag set: a small ordered list of tag ids.
type TagSet []string

// Contains reports whether id is part of the set.
func (s TagSet) Contains(id string) bool {
	for _, candidate := range s {
		if candidate == id {
			return true
		}
	}
	return false
}

// Equal compares two sets ignoring order.
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
