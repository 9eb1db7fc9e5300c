package services

import (
	"context"
	"strings"
	"testing"

	"github.com/pitchside/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadLogoWithoutStorage(t *testing.T) {
	// Deployments without object storage wire a nil uploader; logo
	// endpoints must refuse cleanly instead of dereferencing it.
	ctx := context.Background()
	users := newFakeUserRepo()
	user := &models.User{Name: "Alex", Email: "alex@example.com"}
	require.NoError(t, users.Create(ctx, user))

	svc := NewUserService(users, nil)
	_, err := svc.UploadLogo(ctx, user.ID, "image/png", strings.NewReader("png-bytes"))
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}

func TestTeamUploadLogoWithoutStorage(t *testing.T) {
	f := newTeamFixture(t)

	_, err := f.svc.UploadLogo(context.Background(), f.teamID, f.captainID, "image/png", strings.NewReader("png-bytes"))
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	user := &models.User{Name: "Alex", Email: "alex@example.com"}
	require.NoError(t, users.Create(ctx, user))

	svc := NewUserService(users, nil)

	position := models.PositionForward
	age := 24
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Position: &position,
		Age:      &age,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex", updated.Name)
	require.NotNil(t, updated.Position)
	assert.Equal(t, models.PositionForward, *updated.Position)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 24, *updated.Age)
}

func TestUpdateProfileValidation(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	user := &models.User{Name: "Alex", Email: "alex@example.com"}
	require.NoError(t, users.Create(ctx, user))

	svc := NewUserService(users, nil)

	bad := models.PlayerPosition("Striker")
	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Position: &bad})
	assert.ErrorIs(t, err, ErrInvalidPosition)

	empty := "  "
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: &empty})
	assert.ErrorIs(t, err, ErrNameRequired)
}
