package errorutil

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeNotAGuildChannel  = "NOT_A_GUILD_CHANNEL"
	CodeNotAThreadChannel = "NOT_A_THREAD_CHANNEL"
	CodeTagNotFound       = "TAG_NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewNotAGuildChannel() error {
	return NewDomainError(CodeNotAGuildChannel, "this command can only be used in a server channel", nil)
}

func NewNotAThreadChannel() error {
	return NewDomainError(CodeNotAThreadChannel, "this command can only be used inside a ticket thread", nil)
}

// NewTagNotFound reports a forum that lacks an expected tag.
func NewTagNotFound(label string) error {
	return NewDomainError(CodeTagNotFound,
		fmt.Sprintf("tag %q not found on the forum, please contact an admin", label),
		map[string]any{"label": label})
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// IsCode reports whether err carries the given DomainError code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{Code: CodeInternal, Message: "internal error", Err: err}
}

// UserMessage renders err for the person who invoked a command. Internal failures
// are not echoed back verbatim.
func UserMessage(err error) string {
	domainErr := ToDomainError(err)
	if domainErr == nil {
		return ""
	}
	if domainErr.Code == CodeInternal {
		return "Something went wrong while handling the command. Please try again."
	}
	msg := domainErr.Message
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
