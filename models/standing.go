package models

// StandingRow is one computed points-table entry. Rows are never stored;
// the table is folded from finished matches on every read.
type StandingRow struct {
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}
