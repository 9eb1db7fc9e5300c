package models

import "time"

// MatchStatus matches the match_status ENUM in the database.
// Progression is linear: scheduled -> live -> finished.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusLive, MatchStatusFinished:
		return true
	}
	return false
}

// RoundLeagueStage is the label assigned to every generated round-robin match.
const RoundLeagueStage = "League Stage"

// Round labels are free text, but this fixed subset requires a decisive
// result: a score tie must be settled on penalties.
var knockoutRounds = map[string]struct{}{
	"Final":         {},
	"Semi-Final":    {},
	"Quarter-Final": {},
	"Eliminator":    {},
}

func IsKnockoutRound(round string) bool {
	_, ok := knockoutRounds[round]
	return ok
}

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Seq          int         `json:"seq" db:"seq"`
	TeamAID      int         `json:"team_a_id" db:"team_a_id"`
	TeamBID      int         `json:"team_b_id" db:"team_b_id"`
	Date         *string     `json:"date,omitempty" db:"match_date"`
	Time         *string     `json:"time,omitempty" db:"match_time"`
	ScoreA       int         `json:"score_a" db:"score_a"`
	ScoreB       int         `json:"score_b" db:"score_b"`
	PenaltyA     *int        `json:"penalty_a,omitempty" db:"penalty_a"`
	PenaltyB     *int        `json:"penalty_b,omitempty" db:"penalty_b"`
	Status       MatchStatus `json:"status" db:"status"`
	Round        string      `json:"round" db:"round"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	POTMID       *int        `json:"potm_id,omitempty" db:"potm_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	// Event ledger, populated on detail reads.
	Goals []Goal `json:"goals,omitempty" db:"-"`
	Cards []Card `json:"cards,omitempty" db:"-"`
}

// Teams reports both team ids of the match.
func (m *Match) Teams() (int, int) {
	return m.TeamAID, m.TeamBID
}

// HasTeam reports whether teamID plays in this match.
func (m *Match) HasTeam(teamID int) bool {
	return m.TeamAID == teamID || m.TeamBID == teamID
}

// Opponent returns the other side of the match. The caller must have
// checked HasTeam first.
func (m *Match) Opponent(teamID int) int {
	if m.TeamAID == teamID {
		return m.TeamBID
	}
	return m.TeamAID
}
