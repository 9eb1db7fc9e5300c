package models

import "time"

type Tournament struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	AdminID        int       `json:"admin_id" db:"admin_id"`
	InviteCode     string    `json:"invite_code" db:"invite_code"`
	SchedulingDone bool      `json:"scheduling_done" db:"scheduling_done"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	// Resolved views, populated by the service on detail reads.
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
