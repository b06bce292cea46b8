package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")

	user, err := auth.Register(context.Background(), service.RegisterInput{
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Julia",
		LastName:  "Child",
		Password:  "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)

	token, err := auth.Login(context.Background(), "chef@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "chef", claims.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")

	in := service.RegisterInput{
		Email:    "chef@example.com",
		Username: "chef",
		Password: "s3cretpass",
	}
	_, err := auth.Register(context.Background(), in)
	require.NoError(t, err)

	in.Username = "anotherchef"
	_, err = auth.Register(context.Background(), in)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")

	_, err := auth.Register(context.Background(), service.RegisterInput{
		Email:    "chef@example.com",
		Username: "chef",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), service.RegisterInput{
		Email:    "other@example.com",
		Username: "chef",
		Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateUser(t, db, "chef")

	_, err := auth.Login(context.Background(), user.Email, "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "missing@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateUser(t, db, "chef")

	err := auth.SetPassword(context.Background(), user.ID, "wrongpassword", "newpass456")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, auth.SetPassword(context.Background(), user.ID, "password123", "newpass456"))

	_, err = auth.Login(context.Background(), user.Email, "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(context.Background(), user.Email, "newpass456")
	assert.NoError(t, err)
}

func TestValidateTokenRejectsForgedSignature(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")
	other := service.NewAuthService(db, "other-secret")
	user := testhelpers.CreateUser(t, db, "chef")

	token, err := other.GenerateToken(user.ID, user.Username)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}
