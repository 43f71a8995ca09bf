package service

import (
	"github.com/spec-kit/support-forum-bot/internal/domain"
	apperrors "github.com/spec-kit/support-forum-bot/pkg/util/errorutil"
)

// ResolveTag returns the id of the first available tag whose name matches label,
// ignoring case.
func ResolveTag(available []domain.ForumTag, label domain.TagLabel) (string, bool) {
	for _, tag := range available {
		if tag.Matches(label) {
			return tag.ID, true
		}
	}
	return "", false
}

// ResolveTags resolves every label in order. The first missing label yields a
// TAG_NOT_FOUND error and no ids.
func ResolveTags(available []domain.ForumTag, labels ...domain.TagLabel) ([]string, error) {
	ids := make([]string, 0, len(labels))
	for _, label := range labels {
		id, ok := ResolveTag(available, label)
		if !ok {
			return nil, apperrors.NewTagNotFound(string(label))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// hasCloseTag reports whether any applied tag is one of the forum's close tags.
func hasCloseTag(applied domain.TagSet, available []domain.ForumTag) bool {
	for _, tag := range available {
		if applied.Contains(tag.ID) && domain.IsCloseTag(tag) {
			return true
		}
	}
	return false
}
