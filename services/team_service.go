package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pitchside/league-system/models"
	"github.com/pitchside/league-system/repositories"
	"github.com/pitchside/league-system/storage"
)

type TeamService interface {
	// Create makes creatorID the team's first member and admin and
	// assigns a unique 8-character invite code.
	Create(ctx context.Context, creatorID int, name string) (*models.Team, error)
	// JoinByCode enrolls the caller via an invite code, matched
	// case-insensitively. Joining twice is a conflict.
	JoinByCode(ctx context.Context, userID int, code string) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)

	AddMember(ctx context.Context, teamID, callerID, memberID int) error
	RemoveMember(ctx context.Context, teamID, callerID, memberID int) error
	// ToggleAdmin flips the member's admin flag. Revoking the last admin
	// is rejected so a team always has an acting admin.
	ToggleAdmin(ctx context.Context, teamID, callerID, memberID int) error
	AssignRole(ctx context.Context, teamID, callerID, memberID int, role models.TeamRole) error
	UploadLogo(ctx context.Context, teamID, callerID int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		uploader: uploader,
	}
}

// ensureTeamAdmin is the single admin-gate for team mutations.
func (s *teamService) ensureTeamAdmin(ctx context.Context, teamID, userID int) error {
	isAdmin, err := s.teamRepo.IsAdmin(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to check team admin: %w", err)
	}
	if !isAdmin {
		return ErrNotTeamAdmin
	}
	return nil
}

func (s *teamService) Create(ctx context.Context, creatorID int, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code, err := generateInviteCode(TeamCodeLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteCodeGeneration, err)
		}

		team := &models.Team{Name: name, InviteCode: code}
		err = s.teamRepo.Create(ctx, team, creatorID)
		if err == nil {
			return team, nil
		}
		if !errors.Is(err, repositories.ErrTeamCodeConflict) {
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrInviteCodeGeneration, codeMaxAttempts)
}

func (s *teamService) JoinByCode(ctx context.Context, userID int, code string) (*models.Team, error) {
	team, err := s.teamRepo.GetByInviteCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if err := s.teamRepo.AddMember(ctx, team.ID, userID); err != nil {
		if errors.Is(err, repositories.ErrMembershipConflict) {
			return nil, ErrMembershipConflict
		}
		return nil, fmt.Errorf("failed to join team %d: %w", team.ID, err)
	}
	return s.GetByID(ctx, team.ID)
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	for i := range members {
		members[i].PasswordHash = ""
		members[i].LogoURL = publicLogoURL(s.uploader, members[i].LogoKey)
	}
	team.Members = members
	team.LogoURL = publicLogoURL(s.uploader, team.LogoKey)
	return team, nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, callerID, memberID int) error {
	if err := s.ensureTeamAdmin(ctx, teamID, callerID); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", memberID, err)
	}

	if err := s.teamRepo.AddMember(ctx, teamID, memberID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipConflict):
			return ErrMembershipConflict
		case errors.Is(err, repositories.ErrTeamNotFound):
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to add member %d to team %d: %w", memberID, teamID, err)
	}
	return nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, callerID, memberID int) error {
	if err := s.ensureTeamAdmin(ctx, teamID, callerID); err != nil {
		return err
	}

	// Removing a member strips any admin role they held, so refuse a
	// removal that would leave the team without admins.
	wasAdmin, err := s.teamRepo.IsAdmin(ctx, teamID, memberID)
	if err != nil {
		return fmt.Errorf("failed to check admin flag: %w", err)
	}
	if wasAdmin {
		admins, err := s.teamRepo.CountAdmins(ctx, teamID)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, memberID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to remove member %d from team %d: %w", memberID, teamID, err)
	}
	return nil
}

func (s *teamService) ToggleAdmin(ctx context.Context, teamID, callerID, memberID int) error {
	if err := s.ensureTeamAdmin(ctx, teamID, callerID); err != nil {
		return err
	}

	isMember, err := s.teamRepo.IsMember(ctx, teamID, memberID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return ErrRoleHolderNotMember
	}

	isAdmin, err := s.teamRepo.IsAdmin(ctx, teamID, memberID)
	if err != nil {
		return fmt.Errorf("failed to check admin flag: %w", err)
	}
	if isAdmin {
		admins, err := s.teamRepo.CountAdmins(ctx, teamID)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.teamRepo.SetAdmin(ctx, teamID, memberID, !isAdmin); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrRoleHolderNotMember
		}
		return fmt.Errorf("failed to toggle admin for member %d: %w", memberID, err)
	}
	return nil
}

func (s *teamService) AssignRole(ctx context.Context, teamID, callerID, memberID int, role models.TeamRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.ensureTeamAdmin(ctx, teamID, callerID); err != nil {
		return err
	}

	isMember, err := s.teamRepo.IsMember(ctx, teamID, memberID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return ErrRoleHolderNotMember
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	switch role {
	case models.RoleCaptain:
		team.CaptainID = &memberID
	case models.RoleViceCaptain:
		team.ViceCaptainID = &memberID
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return fmt.Errorf("failed to assign %s on team %d: %w", role, teamID, err)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, callerID int, contentType string, file io.Reader) (*models.Team, error) {
	if err := s.ensureTeamAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	key, err := uploadLogo(ctx, s.uploader, fmt.Sprintf("teams/%d", teamID), team.LogoKey, contentType, file)
	if err != nil {
		return nil, err
	}

	team.LogoKey = &key
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save logo key for team %d: %w", teamID, err)
	}
	team.LogoURL = publicLogoURL(s.uploader, team.LogoKey)
	return team, nil
}
