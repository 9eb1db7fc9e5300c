package services

import (
	"context"
	"strings"
	"testing"

	"github.com/pitchside/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teamFixture struct {
	svc   TeamService
	teams *fakeTeamRepo
	users *fakeUserRepo

	captainID int
	memberID  int
	teamID    int
}

func newTeamFixture(t *testing.T) *teamFixture {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserRepo()
	teams := newFakeTeamRepo()

	captain := &models.User{Name: "Cap", Email: "cap@example.com"}
	member := &models.User{Name: "Mia", Email: "mia@example.com"}
	require.NoError(t, users.Create(ctx, captain))
	require.NoError(t, users.Create(ctx, member))

	team := &models.Team{Name: "United", InviteCode: "UNITEDAB"}
	require.NoError(t, teams.Create(ctx, team, captain.ID))
	require.NoError(t, teams.AddMember(ctx, team.ID, member.ID))

	return &teamFixture{
		svc:       NewTeamService(teams, users, nil),
		teams:     teams,
		users:     users,
		captainID: captain.ID,
		memberID:  member.ID,
		teamID:    team.ID,
	}
}

func TestTeamCreateEnrollsCreatorAsAdmin(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	team, err := f.svc.Create(ctx, f.memberID, "  Rovers  ")
	require.NoError(t, err)
	assert.Equal(t, "Rovers", team.Name)
	assert.Len(t, team.InviteCode, TeamCodeLength)

	isAdmin, err := f.teams.IsAdmin(ctx, team.ID, f.memberID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestTeamCreateRequiresName(t *testing.T) {
	f := newTeamFixture(t)

	_, err := f.svc.Create(context.Background(), f.captainID, "   ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestJoinByCodeIsCaseInsensitive(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	joiner := &models.User{Name: "Nia", Email: "nia@example.com"}
	require.NoError(t, f.users.Create(ctx, joiner))

	team, err := f.svc.JoinByCode(ctx, joiner.ID, " unitedab ")
	require.NoError(t, err)
	assert.Equal(t, f.teamID, team.ID)
	assert.Len(t, team.Members, 3)
}

func TestJoinByCodeDuplicateMembership(t *testing.T) {
	f := newTeamFixture(t)

	_, err := f.svc.JoinByCode(context.Background(), f.memberID, "UNITEDAB")
	assert.ErrorIs(t, err, ErrMembershipConflict)
}

func TestJoinByCodeUnknownCode(t *testing.T) {
	f := newTeamFixture(t)

	_, err := f.svc.JoinByCode(context.Background(), f.memberID, "NOSUCHCD")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestRemoveMemberLastAdminGuard(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	err := f.svc.RemoveMember(ctx, f.teamID, f.captainID, f.captainID)
	assert.ErrorIs(t, err, ErrLastAdmin)

	require.NoError(t, f.svc.RemoveMember(ctx, f.teamID, f.captainID, f.memberID))
	isMember, err := f.teams.IsMember(ctx, f.teamID, f.memberID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestRemoveMemberClearsRoles(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AssignRole(ctx, f.teamID, f.captainID, f.memberID, models.RoleCaptain))
	require.NoError(t, f.svc.RemoveMember(ctx, f.teamID, f.captainID, f.memberID))

	team, err := f.svc.GetByID(ctx, f.teamID)
	require.NoError(t, err)
	assert.Nil(t, team.CaptainID)
}

func TestToggleAdmin(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	// Promote, then the original admin can be demoted.
	require.NoError(t, f.svc.ToggleAdmin(ctx, f.teamID, f.captainID, f.memberID))
	require.NoError(t, f.svc.ToggleAdmin(ctx, f.teamID, f.memberID, f.captainID))

	isAdmin, err := f.teams.IsAdmin(ctx, f.teamID, f.captainID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// The remaining admin cannot demote themselves.
	err = f.svc.ToggleAdmin(ctx, f.teamID, f.memberID, f.memberID)
	assert.ErrorIs(t, err, ErrLastAdmin)
}

func TestToggleAdminRequiresAdminCaller(t *testing.T) {
	f := newTeamFixture(t)

	err := f.svc.ToggleAdmin(context.Background(), f.teamID, f.memberID, f.memberID)
	assert.ErrorIs(t, err, ErrNotTeamAdmin)
}

func TestAssignRoleValidation(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	err := f.svc.AssignRole(ctx, f.teamID, f.captainID, f.memberID, models.TeamRole("coach"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	err = f.svc.AssignRole(ctx, f.teamID, f.captainID, 999, models.RoleCaptain)
	assert.ErrorIs(t, err, ErrRoleHolderNotMember)

	require.NoError(t, f.svc.AssignRole(ctx, f.teamID, f.captainID, f.memberID, models.RoleViceCaptain))
	team, err := f.svc.GetByID(ctx, f.teamID)
	require.NoError(t, err)
	require.NotNil(t, team.ViceCaptainID)
	assert.Equal(t, f.memberID, *team.ViceCaptainID)
}

func TestGenerateInviteCode(t *testing.T) {
	code, err := generateInviteCode(TournamentCodeLength)
	require.NoError(t, err)
	assert.Len(t, code, TournamentCodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q", r)
	}
}
