package schedule

import (
	"errors"
	"fmt"
)

// ErrNotEnoughTeams is returned when fewer than two teams are available
// for fixture generation.
var ErrNotEnoughTeams = errors.New("at least 2 teams are required to generate a schedule")

// Fixture is one generated pairing. Seq is 1-based and assigned in
// enumeration order.
type Fixture struct {
	Seq     int
	TeamAID int
	TeamBID int
}

// RoundRobin produces one fixture per unordered pair of teams: teamIDs[i]
// vs teamIDs[j] for every i < j, enumerated with i as the outer index.
// For N teams it yields exactly N*(N-1)/2 fixtures numbered 1..N*(N-1)/2.
func RoundRobin(teamIDs []int) ([]Fixture, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughTeams, len(teamIDs))
	}

	fixtures := make([]Fixture, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	seq := 0
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			seq++
			fixtures = append(fixtures, Fixture{
				Seq:     seq,
				TeamAID: teamIDs[i],
				TeamBID: teamIDs[j],
			})
		}
	}

	return fixtures, nil
}
