package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "  Alex  ",
		Email:    "  Alex@Example.com ",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex", user.Name)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	logged, err := svc.Login(ctx, LoginInput{Email: "alex@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	input := RegisterInput{Name: "Alex", Email: "alex@example.com", Password: "secret-pass"}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	input.Name = "Someone Else"
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, ErrEmailConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Register(ctx, RegisterInput{Name: "Alex", Email: "not-an-email", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Register(ctx, RegisterInput{Name: "Alex", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Alex", Email: "alex@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "alex@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
