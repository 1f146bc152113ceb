package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupThenLogin(t *testing.T) {
	repos := newTestRepos(t)
	svc := newFastUserService(repos.users)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "  alice ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Identifier)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	stored, err := repos.users.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)

	logged, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)
}

func TestSignupDuplicateIsConflict(t *testing.T) {
	svc := newFastUserService(newTestRepos(t).users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestSignupValidation(t *testing.T) {
	svc := newFastUserService(newTestRepos(t).users)

	cases := []struct {
		name       string
		identifier string
		credential string
	}{
		{"missing identifier", "", "pw"},
		{"blank identifier", "   ", "pw"},
		{"identifier with spaces", "al ice", "pw"},
		{"identifier too long", strings.Repeat("a", 65), "pw"},
		{"missing credential", "alice", ""},
		{"blank credential", "alice", "   "},
		{"credential over bcrypt limit", "alice", strings.Repeat("x", 73)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.identifier, tc.credential)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newFastUserService(newTestRepos(t).users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
