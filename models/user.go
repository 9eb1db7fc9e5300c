package models

import "time"

// PlayerPosition matches the position ENUM in the database.
type PlayerPosition string

const (
	PositionForward    PlayerPosition = "Forward"
	PositionMidfielder PlayerPosition = "Midfielder"
	PositionDefender   PlayerPosition = "Defender"
	PositionGoalkeeper PlayerPosition = "Goalkeeper"
)

func (p PlayerPosition) Valid() bool {
	switch p {
	case PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper:
		return true
	}
	return false
}

type User struct {
	ID           int             `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Age          *int            `json:"age,omitempty" db:"age"`
	Position     *PlayerPosition `json:"position,omitempty" db:"position"`
	Year         *int            `json:"year,omitempty" db:"year"`
	Mobile       *string         `json:"mobile,omitempty" db:"mobile"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
