package domain

import "github.com/google/uuid"

// LogEventStateChange is the event type written for every successful state
// transition.
const LogEventStateChange = "participant.change_state"

// LogEventApplicationSubmitted is written when a new application is created.
const LogEventApplicationSubmitted = "participant.application_submitted"

// ParticipantLogEvent is one append-only audit record. Entries are never
// updated or deleted; payload schemas vary per event type.
type ParticipantLogEvent struct {
	ID            uuid.UUID         `json:"id"`
	ParticipantID uuid.UUID         `json:"participant_id"`
	EventType     string            `json:"event_type"`
	Data          map[string]string `json:"data"`
	CreatedAt     string            `json:"created_at"`
}

// StateChangePayload builds the canonical payload of a state_change entry.
func StateChangePayload(oldState, newState ParticipantState, action ParticipantStateAction) map[string]string {
	return map[string]string{
		"old_state": string(oldState),
		"new_state": string(newState),
		"action":    string(action),
	}
}
