package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pitchside/league-system/models"
	"github.com/pitchside/league-system/repositories"
)

type MatchService interface {
	// AddMatch appends one manually scheduled match with a caller-supplied
	// round label and the next sequence number. Used for knockout rounds
	// the round-robin generator does not cover.
	AddMatch(ctx context.Context, tournamentID, callerID int, input AddMatchInput) (*models.Match, error)
	UpdateMatch(ctx context.Context, tournamentID, matchID, callerID int, input UpdateMatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, tournamentID, matchID, callerID int) error

	// UpdateStatus advances the match along scheduled -> live -> finished.
	// Finishing resolves the winner; a drawn knockout-round match requires
	// valid penalty scores.
	UpdateStatus(ctx context.Context, tournamentID, matchID, callerID int, input UpdateStatusInput) (*models.Match, error)
	RecordGoal(ctx context.Context, tournamentID, matchID, callerID int, input GoalInput) (*models.Goal, error)
	RecordCard(ctx context.Context, tournamentID, matchID, callerID int, input CardInput) (*models.Card, error)
	SetPlayerOfTheMatch(ctx context.Context, tournamentID, matchID, callerID, playerID int) error
}

type AddMatchInput struct {
	TeamAID int     `json:"team_a_id"`
	TeamBID int     `json:"team_b_id"`
	Round   string  `json:"round"`
	Date    *string `json:"date"`
	Time    *string `json:"time"`
}

type UpdateMatchInput struct {
	TeamAID *int    `json:"team_a_id"`
	TeamBID *int    `json:"team_b_id"`
	Date    *string `json:"date"`
	Time    *string `json:"time"`
}

type UpdateStatusInput struct {
	Status   models.MatchStatus `json:"status"`
	PenaltyA *int               `json:"penalty_a"`
	PenaltyB *int               `json:"penalty_b"`
}

// GoalInput identifies the scorer either by user id or by a free-text name
// for guest players. A named scorer needs an explicit team; a registered
// scorer's team is resolved from the match rosters.
type GoalInput struct {
	ScorerID   *int    `json:"scorer_id"`
	ScorerName *string `json:"scorer_name"`
	AssistID   *int    `json:"assist_id"`
	AssistName *string `json:"assist_name"`
	OwnGoal    bool    `json:"own_goal"`
	TeamID     *int    `json:"team_id"`
	Minute     int     `json:"minute"`
}

type CardInput struct {
	PlayerID   *int            `json:"player_id"`
	PlayerName *string         `json:"player_name"`
	CardType   models.CardType `json:"card_type"`
	TeamID     *int            `json:"team_id"`
	Minute     int             `json:"minute"`
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	hub            LiveBroadcaster
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	hub LiveBroadcaster,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		hub:            hub,
	}
}

func (s *matchService) broadcast(tournamentID int, event string, payload any) {
	if s.hub != nil {
		s.hub.BroadcastTournament(tournamentID, event, payload)
	}
}

func (s *matchService) getMatch(ctx context.Context, tournamentID, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, tournamentID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

// ensureEntered checks the team plays in this tournament.
func (s *matchService) ensureEntered(ctx context.Context, tournamentID int, teamIDs ...int) error {
	teams, err := s.tournamentRepo.ListTeams(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
	}
	entered := make(map[int]bool, len(teams))
	for _, team := range teams {
		entered[team.ID] = true
	}
	for _, id := range teamIDs {
		if !entered[id] {
			return ErrTeamNotInTournament
		}
	}
	return nil
}

func (s *matchService) AddMatch(ctx context.Context, tournamentID, callerID int, input AddMatchInput) (*models.Match, error) {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Round) == "" {
		return nil, fmt.Errorf("%w: round label is required", ErrValidationFailed)
	}
	if input.TeamAID == input.TeamBID {
		return nil, ErrSameTeam
	}
	if err := s.ensureEntered(ctx, tournamentID, input.TeamAID, input.TeamBID); err != nil {
		return nil, err
	}

	match := &models.Match{
		TournamentID: tournamentID,
		TeamAID:      input.TeamAID,
		TeamBID:      input.TeamBID,
		Date:         input.Date,
		Time:         input.Time,
		Status:       models.MatchStatusScheduled,
		Round:        strings.TrimSpace(input.Round),
	}
	if err := s.matchRepo.Insert(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to add match: %w", err)
	}

	s.broadcast(tournamentID, EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, tournamentID, matchID, callerID int, input UpdateMatchInput) (*models.Match, error) {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, tournamentID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusFinished {
		return nil, ErrMatchAlreadyFinished
	}

	if input.TeamAID != nil {
		match.TeamAID = *input.TeamAID
	}
	if input.TeamBID != nil {
		match.TeamBID = *input.TeamBID
	}
	if match.TeamAID == match.TeamBID {
		return nil, ErrSameTeam
	}
	if input.TeamAID != nil || input.TeamBID != nil {
		if err := s.ensureEntered(ctx, tournamentID, match.TeamAID, match.TeamBID); err != nil {
			return nil, err
		}
	}
	if input.Date != nil {
		match.Date = input.Date
	}
	if input.Time != nil {
		match.Time = input.Time
	}

	if err := s.matchRepo.UpdateDetails(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match %d: %w", matchID, err)
	}

	s.broadcast(tournamentID, EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, tournamentID, matchID, callerID int) error {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return err
	}

	if err := s.matchRepo.Delete(ctx, tournamentID, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return nil
}

// statusRank orders the linear progression; transitions may only move
// forward.
func statusRank(s models.MatchStatus) int {
	switch s {
	case models.MatchStatusScheduled:
		return 0
	case models.MatchStatusLive:
		return 1
	case models.MatchStatusFinished:
		return 2
	}
	return -1
}

func (s *matchService) UpdateStatus(ctx context.Context, tournamentID, matchID, callerID int, input UpdateStatusInput) (*models.Match, error) {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, tournamentID, matchID)
	if err != nil {
		return nil, err
	}

	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if statusRank(input.Status) <= statusRank(match.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStatusTransition, match.Status, input.Status)
	}

	if input.Status != models.MatchStatusFinished {
		if err := s.matchRepo.SetStatus(ctx, matchID, input.Status); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return nil, ErrMatchNotFound
			}
			return nil, fmt.Errorf("failed to set status of match %d: %w", matchID, err)
		}
		match.Status = input.Status
		s.broadcast(tournamentID, EventMatchUpdated, match)
		return match, nil
	}

	if err := resolveOutcome(match, input.PenaltyA, input.PenaltyB); err != nil {
		return nil, err
	}
	if err := s.matchRepo.Finish(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotEditable) {
			return nil, ErrMatchAlreadyFinished
		}
		return nil, fmt.Errorf("failed to finish match %d: %w", matchID, err)
	}

	match.Status = models.MatchStatusFinished
	s.broadcast(tournamentID, EventMatchUpdated, match)
	return match, nil
}

// resolveOutcome decides the winner of a finishing match and mutates the
// match in place. On a score tie in a knockout round the caller must
// supply two non-negative, unequal penalty scores; a tie elsewhere is a
// draw with no winner.
func resolveOutcome(match *models.Match, penaltyA, penaltyB *int) error {
	switch {
	case match.ScoreA > match.ScoreB:
		match.WinnerID = &match.TeamAID
		return nil
	case match.ScoreB > match.ScoreA:
		match.WinnerID = &match.TeamBID
		return nil
	}

	if !models.IsKnockoutRound(match.Round) {
		match.WinnerID = nil
		return nil
	}

	if penaltyA == nil || penaltyB == nil {
		return ErrPenaltiesRequired
	}
	if *penaltyA < 0 || *penaltyB < 0 || *penaltyA == *penaltyB {
		return ErrPenaltiesInvalid
	}

	match.PenaltyA = penaltyA
	match.PenaltyB = penaltyB
	if *penaltyA > *penaltyB {
		match.WinnerID = &match.TeamAID
	} else {
		match.WinnerID = &match.TeamBID
	}
	return nil
}

// resolvePlayerTeam finds which side of the match the player's roster
// belongs to. Team A is checked first, so a player rostered on both
// sides resolves to team A; callers pass an explicit team id to
// disambiguate.
func (s *matchService) resolvePlayerTeam(ctx context.Context, match *models.Match, playerID int) (int, error) {
	for _, teamID := range []int{match.TeamAID, match.TeamBID} {
		isMember, err := s.teamRepo.IsMember(ctx, teamID, playerID)
		if err != nil {
			return 0, fmt.Errorf("failed to check roster of team %d: %w", teamID, err)
		}
		if isMember {
			return teamID, nil
		}
	}
	return 0, ErrScorerNotInMatch
}

func (s *matchService) RecordGoal(ctx context.Context, tournamentID, matchID, callerID int, input GoalInput) (*models.Goal, error) {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, tournamentID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusFinished {
		return nil, ErrMatchAlreadyFinished
	}

	var scorerTeam int
	switch {
	case input.ScorerID != nil:
		// An explicit team pins down players rostered on both sides.
		if input.TeamID != nil {
			if !match.HasTeam(*input.TeamID) {
				return nil, ErrScorerNotInMatch
			}
			isMember, err := s.teamRepo.IsMember(ctx, *input.TeamID, *input.ScorerID)
			if err != nil {
				return nil, fmt.Errorf("failed to check roster of team %d: %w", *input.TeamID, err)
			}
			if !isMember {
				return nil, ErrScorerNotInMatch
			}
			scorerTeam = *input.TeamID
			break
		}
		scorerTeam, err = s.resolvePlayerTeam(ctx, match, *input.ScorerID)
		if err != nil {
			return nil, err
		}
	case input.ScorerName != nil && strings.TrimSpace(*input.ScorerName) != "":
		// Guest scorer: the acting team must be named explicitly.
		if input.TeamID == nil {
			return nil, fmt.Errorf("%w: a named scorer requires a team", ErrValidationFailed)
		}
		if !match.HasTeam(*input.TeamID) {
			return nil, ErrScorerNotInMatch
		}
		scorerTeam = *input.TeamID
	default:
		return nil, fmt.Errorf("%w: a scorer id or name is required", ErrValidationFailed)
	}

	// An own goal benefits the opposing side of the scorer's roster.
	benefiting := scorerTeam
	if input.OwnGoal {
		benefiting = match.Opponent(scorerTeam)
	}

	goal := &models.Goal{
		MatchID:    matchID,
		ScorerID:   input.ScorerID,
		ScorerName: input.ScorerName,
		AssistID:   input.AssistID,
		AssistName: input.AssistName,
		OwnGoal:    input.OwnGoal,
		TeamID:     benefiting,
		Minute:     input.Minute,
	}
	if err := s.matchRepo.AppendGoal(ctx, goal); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrMatchNotEditable):
			return nil, ErrMatchAlreadyFinished
		case errors.Is(err, repositories.ErrMatchTeamInvalid):
			return nil, ErrScorerNotInMatch
		}
		return nil, fmt.Errorf("failed to record goal: %w", err)
	}

	s.broadcast(tournamentID, EventGoalRecorded, goal)
	return goal, nil
}

func (s *matchService) RecordCard(ctx context.Context, tournamentID, matchID, callerID int, input CardInput) (*models.Card, error) {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, tournamentID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusFinished {
		return nil, ErrMatchAlreadyFinished
	}
	if !input.CardType.Valid() {
		return nil, ErrInvalidCardType
	}

	var team int
	switch {
	case input.TeamID != nil:
		if !match.HasTeam(*input.TeamID) {
			return nil, ErrScorerNotInMatch
		}
		team = *input.TeamID
	case input.PlayerID != nil:
		team, err = s.resolvePlayerTeam(ctx, match, *input.PlayerID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: a team or registered player is required", ErrValidationFailed)
	}

	if input.PlayerID == nil && (input.PlayerName == nil || strings.TrimSpace(*input.PlayerName) == "") {
		return nil, fmt.Errorf("%w: a player id or name is required", ErrValidationFailed)
	}

	card := &models.Card{
		MatchID:    matchID,
		PlayerID:   input.PlayerID,
		PlayerName: input.PlayerName,
		CardType:   input.CardType,
		TeamID:     team,
		Minute:     input.Minute,
	}
	if err := s.matchRepo.AppendCard(ctx, card); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrMatchNotEditable):
			return nil, ErrMatchAlreadyFinished
		}
		return nil, fmt.Errorf("failed to record card: %w", err)
	}

	s.broadcast(tournamentID, EventCardRecorded, card)
	return card, nil
}

func (s *matchService) SetPlayerOfTheMatch(ctx context.Context, tournamentID, matchID, callerID, playerID int) error {
	if _, err := ensureTournamentAdmin(ctx, s.tournamentRepo, tournamentID, callerID); err != nil {
		return err
	}

	match, err := s.getMatch(ctx, tournamentID, matchID)
	if err != nil {
		return err
	}
	if _, err := s.resolvePlayerTeam(ctx, match, playerID); err != nil {
		return err
	}

	if err := s.matchRepo.SetPlayerOfTheMatch(ctx, matchID, playerID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to set player of the match: %w", err)
	}

	match.POTMID = &playerID
	s.broadcast(tournamentID, EventMatchUpdated, match)
	return nil
}
