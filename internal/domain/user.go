package domain

import "time"

// Role enumerates the access levels of the helpdesk.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAgent Role = "AGENT"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// User is the local record for an externally authenticated caller.
// ExternalID is issued by the identity provider and never changes.
type User struct {
	ID         string
	ExternalID string
	Name       string
	Email      string
	AvatarURL  string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
