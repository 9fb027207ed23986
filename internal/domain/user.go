package domain

import "github.com/google/uuid"

// User is an organizer team member. Participants are not users; they act
// through their per-application code/secret pair instead.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Locale       string    `json:"locale"`
	CreatedAt    string    `json:"created_at"`
}
