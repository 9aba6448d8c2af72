// Package errors classifies failures returned to the calling agent.
//
// Every tool failure carries one of three stable codes. Domain subtypes
// (unknown user, ambiguous user, unknown status...) reuse those codes and
// are told apart by Kind and by the message text.
package errors

import (
	"errors"
	"fmt"
	"regexp"
)

// Code is the stable, protocol-level error class.
type Code string

const (
	CodeInvalidParams  Code = "InvalidParams"
	CodeInternalError  Code = "InternalError"
	CodeMethodNotFound Code = "MethodNotFound"
)

// Kind narrows a Code to a domain-specific failure.
type Kind string

const (
	KindNone            Kind = ""
	KindInvalidFormat   Kind = "InvalidFormat"
	KindUserNotFound    Kind = "UserNotFound"
	KindAmbiguousUser   Kind = "AmbiguousUser"
	KindStatusNotFound  Kind = "StatusNotFound"
	KindNoStatusesFound Kind = "NoStatusesFound"
)

// ToolError is a classified failure. Once an error is a ToolError it is
// passed through unchanged by every layer above the one that created it.
type ToolError struct {
	Code    Code
	Kind    Kind
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

// InvalidParams reports caller-supplied input that is missing or malformed.
func InvalidParams(format string, args ...any) *ToolError {
	return &ToolError{Code: CodeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

// Internal reports an upstream or unexpected failure.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Code: CodeInternalError, Message: fmt.Sprintf(format, args...)}
}

// MethodNotFound reports an unknown tool name.
func MethodNotFound(name string) *ToolError {
	return &ToolError{Code: CodeMethodNotFound, Message: fmt.Sprintf("Unknown tool: %s", name)}
}

// WithKind returns a copy of e tagged with k.
func (e *ToolError) WithKind(k Kind) *ToolError {
	c := *e
	c.Kind = k
	return &c
}

// As returns the ToolError in err's chain, if any.
func As(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// CodeOf returns the code of a classified error, or InternalError for
// anything else.
func CodeOf(err error) Code {
	if te, ok := As(err); ok {
		return te.Code
	}
	return CodeInternalError
}

// IsKind reports whether err is a ToolError of kind k.
func IsKind(err error, k Kind) bool {
	te, ok := As(err)
	return ok && te.Kind == k
}

// ParseAPIError renders err as a short message suitable for a terminal.
func ParseAPIError(err error) string {
	if err == nil {
		return ""
	}
	if te, ok := As(err); ok {
		switch te.Code {
		case CodeInvalidParams:
			return "Invalid input: " + te.Message
		case CodeMethodNotFound:
			return te.Message
		}
		if hint, ok := statusHint(te.Message); ok {
			return hint
		}
		return "Error: " + te.Message
	}

	if hint, ok := statusHint(err.Error()); ok {
		return hint
	}
	return "Error: " + err.Error()
}

// httpStatusRe matches REST failures ("status 401") and GraphQL transport
// failures ("non-200 status code: 401").
var httpStatusRe = regexp.MustCompile(`status(?: code:)? (\d{3})`)

func statusHint(msg string) (string, bool) {
	m := httpStatusRe.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	switch m[1] {
	case "401":
		return "Error: Aha! rejected the API token (401). Run 'aha-mcp setup' or set AHA_API_TOKEN.", true
	case "403":
		return "Error: the API token lacks permission for this operation (403).", true
	case "404":
		return "Error: not found (404). Check the reference and your Aha! domain.", true
	case "429":
		return "Error: Aha! rate limit reached (429). Try again shortly.", true
	}
	return "", false
}
