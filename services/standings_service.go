package services

import (
	"sort"

	"github.com/pitchside/league-system/models"
)

// StandingsScope selects which finished matches the points table folds.
type StandingsScope string

const (
	// ScopeAll folds every finished match regardless of round.
	ScopeAll StandingsScope = "all"
	// ScopeLeague folds only non-knockout rounds, which is what the
	// tournament standings tab shows.
	ScopeLeague StandingsScope = "league"
)

func (s StandingsScope) Valid() bool {
	return s == ScopeAll || s == ScopeLeague
}

// roundFilter returns the predicate over round labels for this scope.
func (s StandingsScope) roundFilter() func(round string) bool {
	if s == ScopeLeague {
		return func(round string) bool { return !models.IsKnockoutRound(round) }
	}
	return func(string) bool { return true }
}

// ComputeTable folds finished matches into a sorted points table. Wins are
// worth 3 points, draws 1 each, losses 0. Rows sort by points then goal
// difference, both descending; further ties keep the input team order (no
// richer tie-break is defined, so the sort is deliberately stable).
func ComputeTable(teams []models.Team, matches []models.Match, scope StandingsScope) []models.StandingRow {
	include := scope.roundFilter()

	index := make(map[int]*models.StandingRow, len(teams))
	rows := make([]models.StandingRow, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, models.StandingRow{TeamID: team.ID, TeamName: team.Name})
	}
	for i := range rows {
		index[rows[i].TeamID] = &rows[i]
	}

	for _, match := range matches {
		if match.Status != models.MatchStatusFinished || !include(match.Round) {
			continue
		}
		rowA := index[match.TeamAID]
		rowB := index[match.TeamBID]
		if rowA == nil || rowB == nil {
			continue
		}

		rowA.Played++
		rowB.Played++
		rowA.GoalsFor += match.ScoreA
		rowA.GoalsAgainst += match.ScoreB
		rowB.GoalsFor += match.ScoreB
		rowB.GoalsAgainst += match.ScoreA

		switch {
		case match.WinnerID == nil:
			rowA.Drawn++
			rowB.Drawn++
			rowA.Points++
			rowB.Points++
		case *match.WinnerID == match.TeamAID:
			rowA.Won++
			rowB.Lost++
			rowA.Points += 3
		default:
			rowB.Won++
			rowA.Lost++
			rowB.Points += 3
		}
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].GoalDifference > rows[j].GoalDifference
	})

	return rows
}
