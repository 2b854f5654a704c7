package slackapi

import (
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

// Error kinds surfaced by the facade. Callers match them with errors.Is.
var (
	ErrMessageNotFound     = errors.New("message not found")
	ErrAuth                = errors.New("authentication failed")
	ErrChannelNotFound     = errors.New("channel not found")
	ErrNotInChannel        = errors.New("not in channel")
	ErrAlreadyReacted      = errors.New("already reacted")
	ErrInvalidReactionName = errors.New("invalid reaction name")
	ErrNoSuchReaction      = errors.New("no such reaction")
)

var errorCodes = map[string]error{
	"message_not_found": ErrMessageNotFound,
	"thread_not_found":  ErrMessageNotFound,
	"invalid_auth":      ErrAuth,
	"not_authed":        ErrAuth,
	"token_revoked":     ErrAuth,
	"token_expired":     ErrAuth,
	"account_inactive":  ErrAuth,
	"channel_not_found": ErrChannelNotFound,
	"not_in_channel":    ErrNotInChannel,
	"already_reacted":   ErrAlreadyReacted,
	"invalid_name":      ErrInvalidReactionName,
	"no_reaction":       ErrNoSuchReaction,
}

// APIError wraps a Slack error code. Known codes unwrap to one of the Err* kinds;
// anything else is treated as a transport failure by callers.
type APIError struct {
	Op   string
	Code string
	kind error
	err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *APIError) Unwrap() []error {
	if e.kind == nil {
		return []error{e.err}
	}
	return []error{e.kind, e.err}
}

// NewAPIError builds the error the facade returns for a Slack error code
func NewAPIError(op, code string) *APIError {
	return &APIError{Op: op, Code: code, kind: errorCodes[code], err: errors.New(code)}
}

// classify converts an error returned by the Slack client into an *APIError
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	code := err.Error()
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		code = slackErr.Err
	}

	return &APIError{
		Op:   op,
		Code: code,
		kind: errorCodes[code],
		err:  err,
	}
}

// Code returns the Slack error code carried by err, or err's text
func Code(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
