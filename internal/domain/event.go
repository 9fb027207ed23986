package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single occurrence participants sign up for. Its slug is unique
// per organizer, case-insensitively.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	OrganizerID uuid.UUID  `json:"organizer_id"`
	Slug        string     `json:"slug"`
	Name        I18nString `json:"name"`
	Description I18nString `json:"description"`
	Enabled     bool       `json:"enabled"`

	EventDate      time.Time  `json:"event_date"`
	SignupStart    *time.Time `json:"signup_start,omitempty"`
	SignupEnd      *time.Time `json:"signup_end,omitempty"`
	SignupEndShown *time.Time `json:"signup_end_shown,omitempty"`
	LockDate       *time.Time `json:"lock_date,omitempty"`
}

// CalculatedSignupEnd is the effective end of the signup window; the event
// date stands in when no explicit end is set.
func (e *Event) CalculatedSignupEnd() time.Time {
	if e.SignupEnd != nil {
		return *e.SignupEnd
	}
	return e.EventDate
}

// CalculatedLockDate is the point after which participants can no longer
// change their answers.
func (e *Event) CalculatedLockDate() time.Time {
	if e.LockDate != nil {
		return *e.LockDate
	}
	return e.EventDate
}

// CanUpdate reports whether participants may still change their answers.
// Edits close at the lock date regardless of participant state.
func (e *Event) CanUpdate(now time.Time) bool {
	return now.Before(e.CalculatedLockDate())
}

// CalculatedSignupEndShown is the signup end displayed to participants. It
// may run ahead of the real end to leave slack for late submissions.
func (e *Event) CalculatedSignupEndShown() time.Time {
	if e.SignupEndShown != nil {
		return *e.SignupEndShown
	}
	return e.CalculatedSignupEnd()
}

func (e *Event) HasSignupStarted(now time.Time) bool {
	if e.SignupStart == nil {
		return true
	}
	return e.SignupStart.Before(now)
}

// IsPublic reports whether the event is visible to non-members.
func (e *Event) IsPublic(now time.Time) bool {
	return e.Enabled && e.HasSignupStarted(now)
}

// CanSignup reports whether new applications are accepted right now.
func (e *Event) CanSignup(now time.Time) bool {
	if !e.IsPublic(now) {
		return false
	}
	return e.CalculatedSignupEnd().After(now)
}

// Validate enforces the signup window invariants.
func (e *Event) Validate() error {
	if e.SignupStart != nil && !e.SignupStart.Before(e.CalculatedSignupEnd()) {
		return &ValidationError{Field: "signup_start", Message: "signup start must be before signup end"}
	}
	if e.SignupEndShown != nil && !e.SignupEndShown.Before(e.CalculatedSignupEnd()) {
		return &ValidationError{Field: "signup_end_shown", Message: "shown signup end must be before signup end"}
	}
	return nil
}

// QuestionnaireRole tells which stage of the application a questionnaire
// belongs to.
type QuestionnaireRole int

const (
	// RoleDuringSignup is filled out when applying, reviewed before approval.
	RoleDuringSignup QuestionnaireRole = 1
	// RoleAfterApproval is filled out by approved participants.
	RoleAfterApproval QuestionnaireRole = 2
)

// EventQuestionnaire assigns a questionnaire to an event for one role.
// At most one questionnaire per event and role.
type EventQuestionnaire struct {
	ID              uuid.UUID         `json:"id"`
	EventID         uuid.UUID         `json:"event_id"`
	QuestionnaireID uuid.UUID         `json:"questionnaire_id"`
	Role            QuestionnaireRole `json:"role"`
}
