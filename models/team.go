package models

import "time"

// TeamRole names the special member slots assignable via the roles endpoint.
type TeamRole string

const (
	RoleCaptain     TeamRole = "captain"
	RoleViceCaptain TeamRole = "vice_captain"
)

func (r TeamRole) Valid() bool {
	return r == RoleCaptain || r == RoleViceCaptain
}

type Team struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	InviteCode    string    `json:"invite_code" db:"invite_code"`
	CaptainID     *int      `json:"captain_id,omitempty" db:"captain_id"`
	ViceCaptainID *int      `json:"vice_captain_id,omitempty" db:"vice_captain_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	// Resolved roster, populated by the service on detail reads.
	Members []TeamMember `json:"members,omitempty" db:"-"`
}

// TeamMember is one roster row joined with its user record.
type TeamMember struct {
	User    `json:"user"`
	IsAdmin bool `json:"is_admin" db:"is_admin"`
}
