package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pitchside/league-system/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchNotEditable = errors.New("match is already finished")
	ErrMatchTeamInvalid = errors.New("team does not play in this match")
)

type MatchRepository interface {
	// ReplaceAll wipes every match of the tournament (goal and card
	// ledgers cascade) and inserts the given schedule in one transaction.
	ReplaceAll(ctx context.Context, tournamentID int, matches []models.Match) error
	// Insert appends one match, assigning seq = max existing seq + 1.
	Insert(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, tournamentID, matchID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateDetails(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, tournamentID, matchID int) error

	SetStatus(ctx context.Context, matchID int, status models.MatchStatus) error
	// Finish persists the resolved outcome: status, winner and any
	// penalty scores, atomically.
	Finish(ctx context.Context, match *models.Match) error
	SetPlayerOfTheMatch(ctx context.Context, matchID, playerID int) error

	// AppendGoal locks the match row, re-checks that it is still open,
	// increments the benefiting side's score and inserts the goal, all in
	// one transaction. goal.TeamID selects the side.
	AppendGoal(ctx context.Context, goal *models.Goal) error
	AppendCard(ctx context.Context, card *models.Card) error
	ListGoalsByTournament(ctx context.Context, tournamentID int) ([]models.Goal, error)
	ListCardsByTournament(ctx context.Context, tournamentID int) ([]models.Card, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, seq, team_a_id, team_b_id, match_date, match_time,
	score_a, score_b, penalty_a, penalty_b, status, round, winner_id, potm_id, created_at`

func scanMatch(row interface{ Scan(...any) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Seq,
		&m.TeamAID,
		&m.TeamBID,
		&m.Date,
		&m.Time,
		&m.ScoreA,
		&m.ScoreB,
		&m.PenaltyA,
		&m.PenaltyB,
		&m.Status,
		&m.Round,
		&m.WinnerID,
		&m.POTMID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) ReplaceAll(ctx context.Context, tournamentID int, matches []models.Match) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear matches of tournament %d: %w", tournamentID, err)
	}

	insert := `
		INSERT INTO matches (tournament_id, seq, team_a_id, team_b_id, status, round)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	for i := range matches {
		m := &matches[i]
		err := tx.QueryRowContext(ctx, insert,
			tournamentID, m.Seq, m.TeamAID, m.TeamBID, m.Status, m.Round,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert match %d: %w", m.Seq, err)
		}
	}

	return tx.Commit()
}

func (r *postgresMatchRepository) Insert(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, seq, team_a_id, team_b_id, match_date, match_time, status, round)
		VALUES ($1,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM matches WHERE tournament_id = $1),
			$2, $3, $4, $5, $6, $7)
		RETURNING id, seq, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.TournamentID,
		match.TeamAID,
		match.TeamBID,
		match.Date,
		match.Time,
		match.Status,
		match.Round,
	).Scan(&match.ID, &match.Seq, &match.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, tournamentID, matchID int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 AND tournament_id = $2`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID, tournamentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateDetails(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET team_a_id = $1, team_b_id = $2, match_date = $3, match_time = $4
		WHERE id = $5 AND tournament_id = $6`

	result, err := r.db.ExecContext(ctx, query,
		match.TeamAID,
		match.TeamBID,
		match.Date,
		match.Time,
		match.ID,
		match.TournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, tournamentID, matchID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM matches WHERE id = $1 AND tournament_id = $2`,
		matchID, tournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetStatus(ctx context.Context, matchID int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = $2 WHERE id = $1`,
		matchID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to set status of match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Finish(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, penalty_a = $3, penalty_b = $4
		WHERE id = $5 AND status <> $1`

	result, err := r.db.ExecContext(ctx, query,
		models.MatchStatusFinished,
		match.WinnerID,
		match.PenaltyA,
		match.PenaltyB,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish match %d: %w", match.ID, err)
	}
	// Zero rows here means a concurrent finish won; the service resolved
	// the outcome against a match it had already fetched.
	return checkAffectedRows(result, ErrMatchNotEditable)
}

func (r *postgresMatchRepository) SetPlayerOfTheMatch(ctx context.Context, matchID, playerID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET potm_id = $2 WHERE id = $1`,
		matchID, playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to set player of the match on match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) AppendGoal(ctx context.Context, goal *models.Goal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the match row so concurrent goal appends serialize instead of
	// losing increments.
	var teamA, teamB int
	var status models.MatchStatus
	err = tx.QueryRowContext(ctx,
		`SELECT team_a_id, team_b_id, status FROM matches WHERE id = $1 FOR UPDATE`,
		goal.MatchID,
	).Scan(&teamA, &teamB, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to lock match %d: %w", goal.MatchID, err)
	}

	if status == models.MatchStatusFinished {
		return ErrMatchNotEditable
	}

	var scoreColumn string
	switch goal.TeamID {
	case teamA:
		scoreColumn = "score_a"
	case teamB:
		scoreColumn = "score_b"
	default:
		return ErrMatchTeamInvalid
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE matches SET `+scoreColumn+` = `+scoreColumn+` + 1 WHERE id = $1`,
		goal.MatchID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment score of match %d: %w", goal.MatchID, err)
	}

	insert := `
		INSERT INTO goals (match_id, scorer_id, scorer_name, assist_id, assist_name, own_goal, team_id, minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, insert,
		goal.MatchID,
		goal.ScorerID,
		goal.ScorerName,
		goal.AssistID,
		goal.AssistName,
		goal.OwnGoal,
		goal.TeamID,
		goal.Minute,
	).Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	return tx.Commit()
}

func (r *postgresMatchRepository) AppendCard(ctx context.Context, card *models.Card) error {
	var status models.MatchStatus
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM matches WHERE id = $1`, card.MatchID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to get match %d: %w", card.MatchID, err)
	}
	if status == models.MatchStatusFinished {
		return ErrMatchNotEditable
	}

	insert := `
		INSERT INTO cards (match_id, player_id, player_name, card_type, team_id, minute)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, insert,
		card.MatchID,
		card.PlayerID,
		card.PlayerName,
		card.CardType,
		card.TeamID,
		card.Minute,
	).Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) ListGoalsByTournament(ctx context.Context, tournamentID int) ([]models.Goal, error) {
	query := `
		SELECT g.id, g.match_id, g.scorer_id, g.scorer_name, g.assist_id, g.assist_name,
		       g.own_goal, g.team_id, g.minute, g.created_at
		FROM goals g
		JOIN matches m ON m.id = g.match_id
		WHERE m.tournament_id = $1
		ORDER BY g.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		err := rows.Scan(
			&g.ID, &g.MatchID, &g.ScorerID, &g.ScorerName, &g.AssistID, &g.AssistName,
			&g.OwnGoal, &g.TeamID, &g.Minute, &g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *postgresMatchRepository) ListCardsByTournament(ctx context.Context, tournamentID int) ([]models.Card, error) {
	query := `
		SELECT c.id, c.match_id, c.player_id, c.player_name, c.card_type, c.team_id, c.minute, c.created_at
		FROM cards c
		JOIN matches m ON m.id = c.match_id
		WHERE m.tournament_id = $1
		ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		err := rows.Scan(
			&c.ID, &c.MatchID, &c.PlayerID, &c.PlayerName, &c.CardType, &c.TeamID, &c.Minute, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
