package domain

import "github.com/google/uuid"

// Organizer is the tenant root. It owns events and questionnaires and is
// identified publicly by its slug (unique case-insensitively).
type Organizer struct {
	ID   uuid.UUID  `json:"id"`
	Slug string     `json:"slug"`
	Name I18nString `json:"name"`
}

// OrganizerMember links a user to an organizer team. Business rule (not
// schema): an organizer must keep at least one member.
type OrganizerMember struct {
	OrganizerID uuid.UUID `json:"organizer_id"`
	UserID      uuid.UUID `json:"user_id"`
}
