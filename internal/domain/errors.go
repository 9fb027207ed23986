package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotificationNotConfigured is returned when no email text is
	// configured for a state change action. The state change itself has
	// already been committed when this surfaces.
	ErrNotificationNotConfigured = errors.New("no email was configured for this action")

	// ErrUniquenessExhausted is returned when the bounded retry budget for
	// generating a unique participant code or secret runs out. This is a
	// deployment problem (keyspace too small for the participant volume),
	// not a user error.
	ErrUniquenessExhausted = errors.New("could not generate a unique participant identifier")

	// ErrStateConflict is returned when a state transition lost a race
	// against a concurrent transition on the same participant. Callers may
	// reload and retry.
	ErrStateConflict = errors.New("participant state changed concurrently")

	// ErrEventLocked is returned when a participant tries to change answers
	// after the event's lock date.
	ErrEventLocked = errors.New("answers are locked for this event")

	// ErrAnswersNotEditable is returned when the set of editable
	// questionnaires is requested for a participant whose state allows no
	// edits at all. Callers are expected to guard with CanEditAnswers.
	ErrAnswersNotEditable = errors.New("answers are not editable in the current state")
)

// IllegalTransitionError reports a (state, action) pair that is not in the
// transition table. No mutation has occurred when it is returned.
type IllegalTransitionError struct {
	State  ParticipantState
	Action ParticipantStateAction
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot perform %s in state %q", e.Action, e.State.Label())
}

// UnscopedAccessError reports a tenant-scoped query attempted without a
// matching scope constraint. It signals a programming error and is fatal to
// the request.
type UnscopedAccessError struct {
	Dimension string
}

func (e *UnscopedAccessError) Error() string {
	return fmt.Sprintf("scoped query without an active %s scope", e.Dimension)
}

// ValidationError carries per-field validation messages, surfaced to the
// submitter before anything reaches persistence.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
