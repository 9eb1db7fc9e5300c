package models

import "time"

// CardType matches the card_type ENUM in the database.
type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

func (c CardType) Valid() bool {
	return c == CardYellow || c == CardRed
}

// Goal is one append-only ledger entry. Scorer and assist are either a
// registered user id or a free-text name for guest players, never both.
// TeamID is the side whose score the goal incremented, which for an own
// goal is the opposing team of the scorer's roster.
type Goal struct {
	ID         int       `json:"id" db:"id"`
	MatchID    int       `json:"match_id" db:"match_id"`
	ScorerID   *int      `json:"scorer_id,omitempty" db:"scorer_id"`
	ScorerName *string   `json:"scorer_name,omitempty" db:"scorer_name"`
	AssistID   *int      `json:"assist_id,omitempty" db:"assist_id"`
	AssistName *string   `json:"assist_name,omitempty" db:"assist_name"`
	OwnGoal    bool      `json:"own_goal" db:"own_goal"`
	TeamID     int       `json:"team_id" db:"team_id"`
	Minute     int       `json:"minute" db:"minute"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Card struct {
	ID         int       `json:"id" db:"id"`
	MatchID    int       `json:"match_id" db:"match_id"`
	PlayerID   *int      `json:"player_id,omitempty" db:"player_id"`
	PlayerName *string   `json:"player_name,omitempty" db:"player_name"`
	CardType   CardType  `json:"card_type" db:"card_type"`
	TeamID     int       `json:"team_id" db:"team_id"`
	Minute     int       `json:"minute" db:"minute"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
