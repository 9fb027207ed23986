package domain

import "github.com/google/uuid"

// TextGroup separates the two keyed text stores.
type TextGroup string

const (
	// TextGroupEmail holds per-action email subject/body templates.
	TextGroupEmail TextGroup = "email"
	// TextGroupStatus holds per-state status messages shown to the
	// participant.
	TextGroupStatus TextGroup = "status"
)

// TextOwner tells whether a text row lives at organizer or event level.
// Event-level rows override organizer-level rows key by key.
type TextOwner string

const (
	TextOwnerOrganizer TextOwner = "organizer"
	TextOwnerEvent     TextOwner = "event"
)

// StoredText is one row of a keyed text store.
type StoredText struct {
	Owner   TextOwner
	OwnerID uuid.UUID
	Group   TextGroup
	Key     string
	Value   map[string]I18nString `json:"value"`
}

// ActionEmailTexts is the resolved email template for one action.
type ActionEmailTexts struct {
	Subject I18nString `json:"subject"`
	Body    I18nString `json:"body"`
}
