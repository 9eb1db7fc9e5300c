package services

import "errors"

// Shared errors surfaced to handlers and mapped onto HTTP statuses.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Validation and business rules
	ErrValidationFailed       = errors.New("validation failed")
	ErrNameRequired           = errors.New("name is required")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrInvalidPosition        = errors.New("invalid player position")
	ErrInvalidRole            = errors.New("invalid team role")
	ErrInvalidCardType        = errors.New("invalid card type")
	ErrInvalidStatus          = errors.New("invalid match status")
	ErrStatusTransition       = errors.New("invalid match status transition")
	ErrNotEnoughTeams         = errors.New("at least 2 teams are required to generate a schedule")
	ErrSameTeam               = errors.New("a match requires two distinct teams")
	ErrTeamNotInTournament    = errors.New("team is not entered in the tournament")
	ErrPenaltiesRequired      = errors.New("penalty scores are required to decide a drawn knockout match")
	ErrPenaltiesInvalid       = errors.New("penalty scores must be non-negative and not equal")
	ErrScorerNotInMatch       = errors.New("player is not part of any team in this match")
	ErrRoleHolderNotMember    = errors.New("role holder must be a current team member")
	ErrMatchAlreadyFinished   = errors.New("match is already finished")
	ErrInviteCodeGeneration   = errors.New("failed to generate a unique invite code")
	ErrUploadsDisabled        = errors.New("logo uploads are not configured on this server")

	// Conflicts
	ErrEmailConflict      = errors.New("email address is already in use")
	ErrMembershipConflict = errors.New("user is already a member of the team")
	ErrEntryConflict      = errors.New("team is already entered in the tournament")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not allowed for the current user")
	ErrNotTeamAdmin       = errors.New("only a team admin can perform this action")
	ErrNotTournamentAdmin = errors.New("only the tournament admin can perform this action")
	ErrLastAdmin          = errors.New("a team must keep at least one admin")
)
