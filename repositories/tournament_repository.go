package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pitchside/league-system/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentCodeConflict = errors.New("tournament invite code conflict")
	ErrEntryConflict          = errors.New("team is already entered in the tournament")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error

	AddTeam(ctx context.Context, tournamentID, teamID int) error
	// ListTeams returns entered teams in entry order, which fixture
	// generation and standings rely on.
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	SetSchedulingDone(ctx context.Context, tournamentID int, done bool) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, admin_id, invite_code, scheduling_done, logo_key, created_at`

func scanTournament(row interface{ Scan(...any) error }) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.AdminID,
		&t.InviteCode,
		&t.SchedulingDone,
		&t.LogoKey,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, admin_id, invite_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.AdminID,
		tournament.InviteCode,
	).Scan(&tournament.ID, &tournament.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "tournaments_invite_code_key") {
			return ErrTournamentCodeConflict
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	tournament, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) GetByInviteCode(ctx context.Context, code string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE upper(invite_code) = upper($1)`

	tournament, err := scanTournament(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by invite code: %w", err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	query := `UPDATE tournaments SET name = $1, logo_key = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query,
		tournament.Name,
		tournament.LogoKey,
		tournament.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", tournament.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddTeam(ctx context.Context, tournamentID, teamID int) error {
	query := `INSERT INTO tournament_teams (tournament_id, team_id) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, tournamentID, teamID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrEntryConflict
		}
		if isForeignKeyViolation(err) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to enter team %d into tournament %d: %w", teamID, tournamentID, err)
	}
	return nil
}

func (r *postgresTournamentRepository) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `
		SELECT t.id, t.name, t.invite_code, t.captain_id, t.vice_captain_id, t.logo_key, t.created_at
		FROM tournament_teams tt
		JOIN teams t ON t.id = tt.team_id
		WHERE tt.tournament_id = $1
		ORDER BY tt.entered_at, t.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament team: %w", err)
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *postgresTournamentRepository) SetSchedulingDone(ctx context.Context, tournamentID int, done bool) error {
	query := `UPDATE tournaments SET scheduling_done = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, tournamentID, done)
	if err != nil {
		return fmt.Errorf("failed to set scheduling flag on tournament %d: %w", tournamentID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
