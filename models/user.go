package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a read model owned by the events service. This backend only
// reads it (roster lookups, display identity on settlements); registration
// and profile management live with the auth collaborator.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	FCMToken  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendeeResponse is the roster entry shape embedded in ledger responses.
type AttendeeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

func (u *User) ToAttendee() AttendeeResponse {
	return AttendeeResponse{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
