package services

import (
	"context"
	"strings"
	"time"

	"github.com/pitchside/league-system/models"
	"github.com/pitchside/league-system/repositories"
)

// In-memory repository fakes. They mirror the postgres implementations'
// error contracts closely enough for service-level tests.

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type membership struct {
	userID  int
	isAdmin bool
}

type fakeTeamRepo struct {
	nextID  int
	teams   map[int]*models.Team
	rosters map[int][]membership
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[int]*models.Team),
		rosters: make(map[int][]membership),
	}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team, creatorID int) error {
	for _, t := range r.teams {
		if t.InviteCode == team.InviteCode {
			return repositories.ErrTeamCodeConflict
		}
	}
	r.nextID++
	team.ID = r.nextID
	team.CreatedAt = time.Now()
	clone := *team
	r.teams[team.ID] = &clone
	r.rosters[team.ID] = []membership{{userID: creatorID, isAdmin: true}}
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTeamRepo) GetByInviteCode(_ context.Context, code string) (*models.Team, error) {
	for _, t := range r.teams {
		if strings.EqualFold(t.InviteCode, code) {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, teamID, userID int) error {
	if _, ok := r.teams[teamID]; !ok {
		return repositories.ErrTeamNotFound
	}
	for _, m := range r.rosters[teamID] {
		if m.userID == userID {
			return repositories.ErrMembershipConflict
		}
	}
	r.rosters[teamID] = append(r.rosters[teamID], membership{userID: userID})
	return nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, teamID, userID int) error {
	roster := r.rosters[teamID]
	for i, m := range roster {
		if m.userID == userID {
			r.rosters[teamID] = append(roster[:i], roster[i+1:]...)
			if t := r.teams[teamID]; t != nil {
				if t.CaptainID != nil && *t.CaptainID == userID {
					t.CaptainID = nil
				}
				if t.ViceCaptainID != nil && *t.ViceCaptainID == userID {
					t.ViceCaptainID = nil
				}
			}
			return nil
		}
	}
	return repositories.ErrMemberNotFound
}

func (r *fakeTeamRepo) SetAdmin(_ context.Context, teamID, userID int, isAdmin bool) error {
	roster := r.rosters[teamID]
	for i := range roster {
		if roster[i].userID == userID {
			roster[i].isAdmin = isAdmin
			return nil
		}
	}
	return repositories.ErrMemberNotFound
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID int) ([]models.TeamMember, error) {
	var members []models.TeamMember
	for _, m := range r.rosters[teamID] {
		members = append(members, models.TeamMember{
			User:    models.User{ID: m.userID},
			IsAdmin: m.isAdmin,
		})
	}
	return members, nil
}

func (r *fakeTeamRepo) IsMember(_ context.Context, teamID, userID int) (bool, error) {
	for _, m := range r.rosters[teamID] {
		if m.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) IsAdmin(_ context.Context, teamID, userID int) (bool, error) {
	for _, m := range r.rosters[teamID] {
		if m.userID == userID {
			return m.isAdmin, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) CountAdmins(_ context.Context, teamID int) (int, error) {
	count := 0
	for _, m := range r.rosters[teamID] {
		if m.isAdmin {
			count++
		}
	}
	return count, nil
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
	entries     map[int][]int // tournamentID -> team ids in entry order
	teamRepo    *fakeTeamRepo
}

func newFakeTournamentRepo(teamRepo *fakeTeamRepo) *fakeTournamentRepo {
	return &fakeTournamentRepo{
		tournaments: make(map[int]*models.Tournament),
		entries:     make(map[int][]int),
		teamRepo:    teamRepo,
	}
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	for _, existing := range r.tournaments {
		if existing.InviteCode == t.InviteCode {
			return repositories.ErrTournamentCodeConflict
		}
	}
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) GetByInviteCode(_ context.Context, code string) (*models.Tournament, error) {
	for _, t := range r.tournaments {
		if strings.EqualFold(t.InviteCode, code) {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) AddTeam(_ context.Context, tournamentID, teamID int) error {
	if _, ok := r.tournaments[tournamentID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, id := range r.entries[tournamentID] {
		if id == teamID {
			return repositories.ErrEntryConflict
		}
	}
	r.entries[tournamentID] = append(r.entries[tournamentID], teamID)
	return nil
}

func (r *fakeTournamentRepo) ListTeams(_ context.Context, tournamentID int) ([]models.Team, error) {
	var teams []models.Team
	for _, id := range r.entries[tournamentID] {
		if t, ok := r.teamRepo.teams[id]; ok {
			teams = append(teams, *t)
		} else {
			teams = append(teams, models.Team{ID: id})
		}
	}
	return teams, nil
}

func (r *fakeTournamentRepo) SetSchedulingDone(_ context.Context, tournamentID int, done bool) error {
	t, ok := r.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.SchedulingDone = done
	return nil
}

type fakeMatchRepo struct {
	nextID     int
	nextGoalID int
	nextCardID int
	matches    map[int]*models.Match
	goals      []models.Goal
	cards      []models.Card
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) ReplaceAll(_ context.Context, tournamentID int, matches []models.Match) error {
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			delete(r.matches, id)
		}
	}
	var kept []models.Goal
	for _, g := range r.goals {
		if _, ok := r.matches[g.MatchID]; ok {
			kept = append(kept, g)
		}
	}
	r.goals = kept
	var keptCards []models.Card
	for _, c := range r.cards {
		if _, ok := r.matches[c.MatchID]; ok {
			keptCards = append(keptCards, c)
		}
	}
	r.cards = keptCards

	for i := range matches {
		r.nextID++
		matches[i].ID = r.nextID
		matches[i].CreatedAt = time.Now()
		clone := matches[i]
		r.matches[clone.ID] = &clone
	}
	return nil
}

func (r *fakeMatchRepo) Insert(_ context.Context, match *models.Match) error {
	maxSeq := 0
	for _, m := range r.matches {
		if m.TournamentID == match.TournamentID && m.Seq > maxSeq {
			maxSeq = m.Seq
		}
	}
	r.nextID++
	match.ID = r.nextID
	match.Seq = maxSeq + 1
	match.CreatedAt = time.Now()
	clone := *match
	r.matches[match.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, tournamentID, matchID int) (*models.Match, error) {
	m, ok := r.matches[matchID]
	if !ok || m.TournamentID != tournamentID {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	var matches []models.Match
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			matches = append(matches, *m)
		}
	}
	// Order by seq, as the postgres implementation does.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j-1].Seq > matches[j].Seq; j-- {
			matches[j-1], matches[j] = matches[j], matches[j-1]
		}
	}
	return matches, nil
}

func (r *fakeMatchRepo) UpdateDetails(_ context.Context, match *models.Match) error {
	m, ok := r.matches[match.ID]
	if !ok || m.TournamentID != match.TournamentID {
		return repositories.ErrMatchNotFound
	}
	m.TeamAID = match.TeamAID
	m.TeamBID = match.TeamBID
	m.Date = match.Date
	m.Time = match.Time
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, tournamentID, matchID int) error {
	m, ok := r.matches[matchID]
	if !ok || m.TournamentID != tournamentID {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, matchID)
	return nil
}

func (r *fakeMatchRepo) SetStatus(_ context.Context, matchID int, status models.MatchStatus) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) Finish(_ context.Context, match *models.Match) error {
	m, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Status == models.MatchStatusFinished {
		return repositories.ErrMatchNotEditable
	}
	m.Status = models.MatchStatusFinished
	m.WinnerID = match.WinnerID
	m.PenaltyA = match.PenaltyA
	m.PenaltyB = match.PenaltyB
	return nil
}

func (r *fakeMatchRepo) SetPlayerOfTheMatch(_ context.Context, matchID, playerID int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.POTMID = &playerID
	return nil
}

func (r *fakeMatchRepo) AppendGoal(_ context.Context, goal *models.Goal) error {
	m, ok := r.matches[goal.MatchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Status == models.MatchStatusFinished {
		return repositories.ErrMatchNotEditable
	}
	switch goal.TeamID {
	case m.TeamAID:
		m.ScoreA++
	case m.TeamBID:
		m.ScoreB++
	default:
		return repositories.ErrMatchTeamInvalid
	}
	r.nextGoalID++
	goal.ID = r.nextGoalID
	goal.CreatedAt = time.Now()
	r.goals = append(r.goals, *goal)
	return nil
}

func (r *fakeMatchRepo) AppendCard(_ context.Context, card *models.Card) error {
	m, ok := r.matches[card.MatchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Status == models.MatchStatusFinished {
		return repositories.ErrMatchNotEditable
	}
	r.nextCardID++
	card.ID = r.nextCardID
	card.CreatedAt = time.Now()
	r.cards = append(r.cards, *card)
	return nil
}

func (r *fakeMatchRepo) ListGoalsByTournament(_ context.Context, tournamentID int) ([]models.Goal, error) {
	var goals []models.Goal
	for _, g := range r.goals {
		if m, ok := r.matches[g.MatchID]; ok && m.TournamentID == tournamentID {
			goals = append(goals, g)
		}
	}
	return goals, nil
}

func (r *fakeMatchRepo) ListCardsByTournament(_ context.Context, tournamentID int) ([]models.Card, error) {
	var cards []models.Card
	for _, c := range r.cards {
		if m, ok := r.matches[c.MatchID]; ok && m.TournamentID == tournamentID {
			cards = append(cards, c)
		}
	}
	return cards, nil
}
