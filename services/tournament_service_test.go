package services

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/pitchside/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tournamentFixture struct {
	svc         TournamentService
	teams       *fakeTeamRepo
	tournaments *fakeTournamentRepo
	matches     *fakeMatchRepo
	hub         *recordingHub

	adminID      int
	tournamentID int
	teamIDs      []int
	captains     []int
}

// newTournamentFixture builds a tournament with the given number of
// entered teams, each created by its own captain.
func newTournamentFixture(t *testing.T, teamCount int) *tournamentFixture {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	tournaments := newFakeTournamentRepo(teams)
	matches := newFakeMatchRepo()
	hub := &recordingHub{}

	admin := &models.User{Name: "Org", Email: "org@example.com"}
	require.NoError(t, users.Create(ctx, admin))

	tournament := &models.Tournament{Name: "City League", AdminID: admin.ID, InviteCode: "CITYLEAGUE"}
	require.NoError(t, tournaments.Create(ctx, tournament))

	f := &tournamentFixture{
		svc: NewTournamentService(tournaments, teams, matches, nil, hub,
			slog.New(slog.NewTextHandler(io.Discard, nil))),
		teams:        teams,
		tournaments:  tournaments,
		matches:      matches,
		hub:          hub,
		adminID:      admin.ID,
		tournamentID: tournament.ID,
	}

	for i := 0; i < teamCount; i++ {
		captain := &models.User{Name: "Captain", Email: "cap" + strconv.Itoa(i) + "@example.com"}
		require.NoError(t, users.Create(ctx, captain))
		team := &models.Team{Name: "Team " + strconv.Itoa(i), InviteCode: "TEAMCOD" + strconv.Itoa(i)}
		require.NoError(t, teams.Create(ctx, team, captain.ID))
		require.NoError(t, tournaments.AddTeam(ctx, tournament.ID, team.ID))
		f.teamIDs = append(f.teamIDs, team.ID)
		f.captains = append(f.captains, captain.ID)
	}
	return f
}

func TestGenerateSchedule(t *testing.T) {
	f := newTournamentFixture(t, 4)
	ctx := context.Background()

	matches, err := f.svc.GenerateSchedule(ctx, f.tournamentID, f.adminID)
	require.NoError(t, err)
	require.Len(t, matches, 6) // C(4,2)

	for i, match := range matches {
		assert.Equal(t, i+1, match.Seq)
		assert.Equal(t, models.MatchStatusScheduled, match.Status)
		assert.Equal(t, models.RoundLeagueStage, match.Round)
		assert.NotEqual(t, match.TeamAID, match.TeamBID)
	}
	// First fixture pairs the first two entered teams.
	assert.Equal(t, f.teamIDs[0], matches[0].TeamAID)
	assert.Equal(t, f.teamIDs[1], matches[0].TeamBID)

	stored, err := f.tournaments.GetByID(ctx, f.tournamentID)
	require.NoError(t, err)
	assert.True(t, stored.SchedulingDone)
	assert.Contains(t, f.hub.events, EventScheduleGenerated)
}

func TestGenerateScheduleReplacesExisting(t *testing.T) {
	f := newTournamentFixture(t, 3)
	ctx := context.Background()

	first, err := f.svc.GenerateSchedule(ctx, f.tournamentID, f.adminID)
	require.NoError(t, err)
	second, err := f.svc.GenerateSchedule(ctx, f.tournamentID, f.adminID)
	require.NoError(t, err)

	assert.Len(t, second, len(first))
	listed, err := f.matches.ListByTournament(ctx, f.tournamentID)
	require.NoError(t, err)
	assert.Len(t, listed, len(second))
}

func TestGenerateScheduleNeedsTwoTeams(t *testing.T) {
	f := newTournamentFixture(t, 1)

	_, err := f.svc.GenerateSchedule(context.Background(), f.tournamentID, f.adminID)
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}

func TestGenerateScheduleRequiresAdmin(t *testing.T) {
	f := newTournamentFixture(t, 2)

	_, err := f.svc.GenerateSchedule(context.Background(), f.tournamentID, f.captains[0])
	assert.ErrorIs(t, err, ErrNotTournamentAdmin)
}

func TestAddTeamByIDAndCode(t *testing.T) {
	f := newTournamentFixture(t, 1)
	ctx := context.Background()

	extra := &models.Team{Name: "Late Entry", InviteCode: "LATENTRY"}
	require.NoError(t, f.teams.Create(ctx, extra, f.captains[0]))

	require.NoError(t, f.svc.AddTeam(ctx, f.tournamentID, f.adminID, strconv.Itoa(extra.ID)))
	err := f.svc.AddTeam(ctx, f.tournamentID, f.adminID, "latentry")
	assert.ErrorIs(t, err, ErrEntryConflict)

	err = f.svc.AddTeam(ctx, f.tournamentID, f.adminID, "NOSUCHCD")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestJoinByCodeRequiresTeamAdmin(t *testing.T) {
	f := newTournamentFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.JoinByCode(ctx, f.captains[1], "CITYLEAGUE", f.teamIDs[0])
	assert.ErrorIs(t, err, ErrNotTeamAdmin)

	extra := &models.Team{Name: "Joiners", InviteCode: "JOINERSX"}
	require.NoError(t, f.teams.Create(ctx, extra, f.captains[0]))
	tournament, err := f.svc.JoinByCode(ctx, f.captains[0], "cityleague", extra.ID)
	require.NoError(t, err)
	assert.Len(t, tournament.Teams, 3)
}

func TestGetByIDResolvesEventLedgers(t *testing.T) {
	f := newTournamentFixture(t, 2)
	ctx := context.Background()

	matches, err := f.svc.GenerateSchedule(ctx, f.tournamentID, f.adminID)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f.matches.matches[matches[0].ID].Status = models.MatchStatusLive
	goal := &models.Goal{MatchID: matches[0].ID, ScorerID: &f.captains[0], TeamID: f.teamIDs[0], Minute: 7}
	require.NoError(t, f.matches.AppendGoal(ctx, goal))

	tournament, err := f.svc.GetByID(ctx, f.tournamentID)
	require.NoError(t, err)
	require.Len(t, tournament.Matches, 1)
	require.Len(t, tournament.Matches[0].Goals, 1)
	assert.Equal(t, 7, tournament.Matches[0].Goals[0].Minute)
	assert.Equal(t, 1, tournament.Matches[0].ScoreA)
}

func TestStandingsThroughService(t *testing.T) {
	f := newTournamentFixture(t, 2)
	ctx := context.Background()

	matches, err := f.svc.GenerateSchedule(ctx, f.tournamentID, f.adminID)
	require.NoError(t, err)

	stored := f.matches.matches[matches[0].ID]
	stored.Status = models.MatchStatusFinished
	stored.ScoreA = 2
	stored.ScoreB = 0
	stored.WinnerID = &stored.TeamAID

	rows, err := f.svc.Standings(ctx, f.tournamentID, ScopeAll)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, f.teamIDs[0], rows[0].TeamID)
	assert.Equal(t, 3, rows[0].Points)
	assert.Equal(t, 0, rows[1].Points)

	_, err = f.svc.Standings(ctx, f.tournamentID, StandingsScope("bogus"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}
