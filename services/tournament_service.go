package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pitchside/league-system/models"
	"github.com/pitchside/league-system/repositories"
	"github.com/pitchside/league-system/schedule"
	"github.com/pitchside/league-system/storage"
	"golang.org/x/sync/errgroup"
)

// LiveBroadcaster pushes an event to every live-feed subscriber of a
// tournament. Implemented by the websocket hub.
type LiveBroadcaster interface {
	BroadcastTournament(tournamentID int, event string, payload any)
}

// Live feed event types.
const (
	EventScheduleGenerated = "SCHEDULE_GENERATED"
	EventMatchUpdated      = "MATCH_UPDATED"
	EventGoalRecorded      = "GOAL_RECORDED"
	EventCardRecorded      = "CARD_RECORDED"
)

type TournamentService interface {
	Create(ctx context.Context, adminID int, name string) (*models.Tournament, error)
	// JoinByCode enters the given team using the tournament's invite
	// code. The caller must be an admin of the team being entered.
	JoinByCode(ctx context.Context, callerID int, code string, teamID int) (*models.Tournament, error)
	// GetByID returns the tournament with teams, matches and event
	// ledgers resolved.
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// AddTeam enters a team by numeric id or by its team invite code.
	AddTeam(ctx context.Context, tournamentID, callerID int, teamCodeOrID string) error
	// GenerateSchedule replaces the whole match list with a fresh
	// round-robin and sets the scheduling-done flag. Prior results are
	// discarded.
	GenerateSchedule(ctx context.Context, tournamentID, callerID int) ([]models.Match, error)
	Standings(ctx context.Context, tournamentID int, scope StandingsScope) ([]models.StandingRow, error)
	UploadLogo(ctx context.Context, tournamentID, callerID int, contentType string, file io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
	hub            LiveBroadcaster
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	hub LiveBroadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		hub:            hub,
		logger:         logger,
	}
}

// ensureTournamentAdmin is the single admin-gate for tournament and match
// mutations. Both the tournament and match services route through it.
func ensureTournamentAdmin(ctx context.Context, repo repositories.TournamentRepository, tournamentID, userID int) (*models.Tournament, error) {
	tournament, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if tournament.AdminID != userID {
		return nil, ErrNotTournamentAdmin
	}
	return tournament, nil
}

func (s *tournamentService) Create(ctx context.Context, adminID int, name string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code, err := generateInviteCode(TournamentCodeLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteCodeGeneration, err)
		}

		tournament := &models.Tournament{Name: name, AdminID: adminID, InviteCode: code}
		err = s.tournamentRepo.Create(ctx, tournament)
		if err == nil {
			return tournament, nil
		}
		if !errors.Is(err, repositories.ErrTournamentCodeConflict) {
			return nil, fmt.Errorf("failed to create tournament: %w", err)
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrInviteCodeGeneration, codeMaxAttempts)
}

func (s *tournamentService) JoinByCode(ctx context.Context, callerID int, code string, teamID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByInviteCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	// Entering a team is a team-admin action, not a tournament-admin one.
	isAdmin, err := s.teamRepo.IsAdmin(ctx, teamID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team admin: %w", err)
	}
	if !isAdmin {
		return nil, ErrNotTeamAdmin
	}

	if err := s.enterTeam(ctx, tournament.ID, teamID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tournament.ID)
}

func (s *tournamentService) enterTeam(ctx context.Context, tournamentID, teamID int) error {
	if err := s.tournamentRepo.AddTeam(ctx, tournamentID, teamID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEntryConflict):
			return ErrEntryConflict
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to enter team %d into tournament %d: %w", teamID, tournamentID, err)
	}
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	var (
		teams   []models.Team
		matches []models.Match
		goals   []models.Goal
		cards   []models.Card
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teams, err = s.tournamentRepo.ListTeams(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		matches, err = s.matchRepo.ListByTournament(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.matchRepo.ListGoalsByTournament(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		cards, err = s.matchRepo.ListCardsByTournament(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve tournament %d: %w", id, err)
	}

	goalsByMatch := make(map[int][]models.Goal, len(matches))
	for _, goal := range goals {
		goalsByMatch[goal.MatchID] = append(goalsByMatch[goal.MatchID], goal)
	}
	cardsByMatch := make(map[int][]models.Card, len(matches))
	for _, card := range cards {
		cardsByMatch[card.MatchID] = append(cardsByMatch[card.MatchID], card)
	}
	for i := range matches {
		matches[i].Goals = goalsByMatch[matches[i].ID]
		matches[i].Cards = cardsByMatch[matches[i].ID]
	}
	for i := range teams {
		teams[i].LogoURL = publicLogoURL(s.uploader, teams[i].LogoKey)
	}

	tournament.Teams = teams
	tournament.Matches = matches
	tournament.LogoURL = publicLogoURL(s.uploader, tournament.LogoKey)
	return tournament, nil
}

func (s *tournamentService) AddTeam(ctx context.Context, tournamentID, callerID int, teamCodeOrID string) error {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return err
	}

	teamCodeOrID = strings.TrimSpace(teamCodeOrID)
	var team *models.Team
	var err error
	if id, convErr := strconv.Atoi(teamCodeOrID); convErr == nil {
		team, err = s.teamRepo.GetByID(ctx, id)
	} else {
		team, err = s.teamRepo.GetByInviteCode(ctx, teamCodeOrID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to resolve team %q: %w", teamCodeOrID, err)
	}

	return s.enterTeam(ctx, tournamentID, team.ID)
}

func (s *tournamentService) GenerateSchedule(ctx context.Context, tournamentID, callerID int) ([]models.Match, error) {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return nil, err
	}

	teams, err := s.tournamentRepo.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
	}

	teamIDs := make([]int, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
	}

	fixtures, err := schedule.RoundRobin(teamIDs)
	if err != nil {
		if errors.Is(err, schedule.ErrNotEnoughTeams) {
			return nil, ErrNotEnoughTeams
		}
		return nil, fmt.Errorf("failed to generate fixtures: %w", err)
	}

	matches := make([]models.Match, len(fixtures))
	for i, f := range fixtures {
		matches[i] = models.Match{
			TournamentID: tournamentID,
			Seq:          f.Seq,
			TeamAID:      f.TeamAID,
			TeamBID:      f.TeamBID,
			Status:       models.MatchStatusScheduled,
			Round:        models.RoundLeagueStage,
		}
	}

	if err := s.matchRepo.ReplaceAll(ctx, tournamentID, matches); err != nil {
		return nil, fmt.Errorf("failed to replace schedule of tournament %d: %w", tournamentID, err)
	}
	if err := s.tournamentRepo.SetSchedulingDone(ctx, tournamentID, true); err != nil {
		return nil, fmt.Errorf("failed to mark scheduling done: %w", err)
	}

	s.logger.Info("schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("teams", len(teams)),
		slog.Int("matches", len(matches)),
	)
	if s.hub != nil {
		s.hub.BroadcastTournament(tournamentID, EventScheduleGenerated, matches)
	}
	return matches, nil
}

func (s *tournamentService) Standings(ctx context.Context, tournamentID int, scope StandingsScope) ([]models.StandingRow, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: unknown standings scope %q", ErrValidationFailed, scope)
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	var teams []models.Team
	var matches []models.Match
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teams, err = s.tournamentRepo.ListTeams(gctx, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		matches, err = s.matchRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings input: %w", err)
	}

	return ComputeTable(teams, matches, scope), nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, tournamentID, callerID int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID)
	if err != nil {
		return nil, err
	}

	key, err := uploadLogo(ctx, s.uploader, fmt.Sprintf("tournaments/%d", tournamentID), tournament.LogoKey, contentType, file)
	if err != nil {
		return nil, err
	}

	tournament.LogoKey = &key
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to save logo key for tournament %d: %w", tournamentID, err)
	}
	tournament.LogoURL = publicLogoURL(s.uploader, tournament.LogoKey)
	return tournament, nil
}
