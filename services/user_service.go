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

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	// UpdateProfile applies a partial update; nil fields keep their
	// current value. Only the owning user may call it.
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)
	UploadLogo(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error)
}

type UpdateProfileInput struct {
	Name     *string                `json:"name"`
	Age      *int                   `json:"age"`
	Position *models.PlayerPosition `json:"position"`
	Year     *int                   `json:"year"`
	Mobile   *string                `json:"mobile"`
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{userRepo: userRepo, uploader: uploader}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	user.PasswordHash = ""
	user.LogoURL = publicLogoURL(s.uploader, user.LogoKey)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.Position != nil {
		if !input.Position.Valid() {
			return nil, ErrInvalidPosition
		}
		user.Position = input.Position
	}
	if input.Age != nil {
		if *input.Age <= 0 {
			return nil, fmt.Errorf("%w: age must be positive", ErrValidationFailed)
		}
		user.Age = input.Age
	}
	if input.Year != nil {
		user.Year = input.Year
	}
	if input.Mobile != nil {
		user.Mobile = input.Mobile
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}

	user.PasswordHash = ""
	user.LogoURL = publicLogoURL(s.uploader, user.LogoKey)
	return user, nil
}

func (s *userService) UploadLogo(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	key, err := uploadLogo(ctx, s.uploader, fmt.Sprintf("users/%d", userID), user.LogoKey, contentType, file)
	if err != nil {
		return nil, err
	}

	user.LogoKey = &key
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save logo key for user %d: %w", userID, err)
	}

	user.PasswordHash = ""
	user.LogoURL = publicLogoURL(s.uploader, user.LogoKey)
	return user, nil
}
