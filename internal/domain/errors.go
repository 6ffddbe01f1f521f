package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoSavedBoundary          = errors.New("no saved divider for team")
	ErrExplicitBoundaryNotFound = errors.New("no divider reference found in input")
	ErrStartBoundaryNotFound    = errors.New("start divider not found in channel history")
	ErrNoAwardee                = errors.New("no awardees found")
	ErrTeamNotFound             = errors.New("team not found")
)

// APIError reports a failed Slack API call. Reason carries the error string
// from the API response body when the call reached Slack; Cause carries the
// transport-level error otherwise.
type APIError struct {
	Method string
	Reason string
	Cause  error
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("slack api %s failed: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("slack api %s failed: %v", e.Method, e.Cause)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
