package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pitchside/league-system/models"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamCodeConflict   = errors.New("team invite code conflict")
	ErrMembershipConflict = errors.New("user is already a member of the team")
	ErrMemberNotFound     = errors.New("team member not found")
)

type TeamRepository interface {
	// Create inserts the team and enrolls creatorID as its first member
	// and admin in one transaction.
	Create(ctx context.Context, team *models.Team, creatorID int) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error

	AddMember(ctx context.Context, teamID, userID int) error
	// RemoveMember drops the membership row and clears any captain or
	// vice-captain slot held by the member, in one transaction.
	RemoveMember(ctx context.Context, teamID, userID int) error
	SetAdmin(ctx context.Context, teamID, userID int, isAdmin bool) error

	ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error)
	IsMember(ctx context.Context, teamID, userID int) (bool, error)
	IsAdmin(ctx context.Context, teamID, userID int) (bool, error)
	CountAdmins(ctx context.Context, teamID int) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, invite_code, captain_id, vice_captain_id, logo_key, created_at`

func scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.InviteCode,
		&t.CaptainID,
		&t.ViceCaptainID,
		&t.LogoKey,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team, creatorID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (name, invite_code)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query, team.Name, team.InviteCode).
		Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "teams_invite_code_key") {
			return ErrTeamCodeConflict
		}
		return fmt.Errorf("failed to create team: %w", err)
	}

	memberQuery := `INSERT INTO team_members (team_id, user_id, is_admin) VALUES ($1, $2, TRUE)`
	if _, err = tx.ExecContext(ctx, memberQuery, team.ID, creatorID); err != nil {
		return fmt.Errorf("failed to enroll creator %d: %w", creatorID, err)
	}

	return tx.Commit()
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE upper(invite_code) = upper($1)`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team by invite code: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, captain_id = $2, vice_captain_id = $3, logo_key = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.CaptainID,
		team.ViceCaptainID,
		team.LogoKey,
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, teamID, userID int) error {
	query := `INSERT INTO team_members (team_id, user_id, is_admin) VALUES ($1, $2, FALSE)`

	_, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrMembershipConflict
		}
		if isForeignKeyViolation(err) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to add member %d to team %d: %w", userID, teamID, err)
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, userID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member %d from team %d: %w", userID, teamID, err)
	}
	if err := checkAffectedRows(result, ErrMemberNotFound); err != nil {
		return err
	}

	// A removed member cannot keep a role slot.
	clearRoles := `
		UPDATE teams
		SET captain_id = CASE WHEN captain_id = $2 THEN NULL ELSE captain_id END,
		    vice_captain_id = CASE WHEN vice_captain_id = $2 THEN NULL ELSE vice_captain_id END
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, clearRoles, teamID, userID); err != nil {
		return fmt.Errorf("failed to clear roles for member %d: %w", userID, err)
	}

	return tx.Commit()
}

func (r *postgresTeamRepository) SetAdmin(ctx context.Context, teamID, userID int, isAdmin bool) error {
	query := `UPDATE team_members SET is_admin = $3 WHERE team_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, teamID, userID, isAdmin)
	if err != nil {
		return fmt.Errorf("failed to set admin flag for member %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT u.` + userColumnsAliased("u") + `, tm.is_admin
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.id`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Email,
			&m.PasswordHash,
			&m.Age,
			&m.Position,
			&m.Year,
			&m.Mobile,
			&m.LogoKey,
			&m.CreatedAt,
			&m.IsAdmin,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresTeamRepository) IsMember(ctx context.Context, teamID, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

func (r *postgresTeamRepository) IsAdmin(ctx context.Context, teamID, userID int) (bool, error) {
	var isAdmin bool
	query := `SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2 AND is_admin)`
	if err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&isAdmin); err != nil {
		return false, fmt.Errorf("failed to check admin flag: %w", err)
	}
	return isAdmin, nil
}

func (r *postgresTeamRepository) CountAdmins(ctx context.Context, teamID int) (int, error) {
	var count int
	query := `SELECT count(*) FROM team_members WHERE team_id = $1 AND is_admin`
	if err := r.db.QueryRowContext(ctx, query, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins of team %d: %w", teamID, err)
	}
	return count, nil
}

// userColumnsAliased prefixes every user column with the given table alias.
func userColumnsAliased(alias string) string {
	return `id, ` + alias + `.name, ` + alias + `.email, ` + alias + `.password_hash, ` +
		alias + `.age, ` + alias + `.position, ` + alias + `.year, ` + alias + `.mobile, ` +
		alias + `.logo_key, ` + alias + `.created_at`
}
