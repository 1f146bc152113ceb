package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

func TestAddAccountNumber_DuplicatePerUserOnly(t *testing.T) {
	svc := NewAccountService(newTestRepos(t).accounts)
	ctx := context.Background()

	acct, err := svc.AddAccountNumber(ctx, "alice", "12345")
	require.NoError(t, err)
	assert.Equal(t, "alice", acct.UserID)
	assert.Equal(t, "12345", acct.AccountNumber)
	assert.NotEmpty(t, acct.ID)

	_, err = svc.AddAccountNumber(ctx, "alice", "12345")
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)

	_, err = svc.AddAccountNumber(ctx, "bob", "12345")
	assert.NoError(t, err)
}

func TestAddAccountNumber_RejectsWithoutUserOrNumber(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAccountService(repos.accounts)
	ctx := context.Background()

	_, err := svc.AddAccountNumber(ctx, "", "12345")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.AddAccountNumber(ctx, "alice", "  ")
	assert.True(t, IsValidation(err), "got %v", err)

	all, err := repos.accounts.ListByUser(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteAccountNumber(t *testing.T) {
	svc := NewAccountService(newTestRepos(t).accounts)
	ctx := context.Background()

	deleted, err := svc.DeleteAccountNumber(ctx, "alice", "nope")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.AddAccountNumber(ctx, "alice", "ACC1")
	require.NoError(t, err)

	// other users cannot remove it
	deleted, err = svc.DeleteAccountNumber(ctx, "bob", "ACC1")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteAccountNumber(ctx, "alice", "ACC1")
	require.NoError(t, err)
	assert.True(t, deleted)

	list, err := svc.ListAccountNumbers(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.DeleteAccountNumber(ctx, "", "ACC1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestListAccountNumbers(t *testing.T) {
	svc := NewAccountService(newTestRepos(t).accounts)
	ctx := context.Background()

	list, err := svc.ListAccountNumbers(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Len(t, list, 0)

	for _, n := range []string{"C", "A", "B"} {
		_, err := svc.AddAccountNumber(ctx, "alice", n)
		require.NoError(t, err)
	}
	_, err = svc.AddAccountNumber(ctx, "bob", "Z")
	require.NoError(t, err)

	list, err = svc.ListAccountNumbers(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{list[0].AccountNumber, list[1].AccountNumber, list[2].AccountNumber})

	_, err = svc.ListAccountNumbers(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// racyAccounts reports no existing record but then loses the insert to a
// concurrent writer.
type racyAccounts struct {
	repository.AccountRepository
	createErr error
}

func (r *racyAccounts) Find(context.Context, string, string) (*domain.AccountNumber, error) {
	return nil, fmt.Errorf("account number: %w", repository.ErrNotFound)
}

func (r *racyAccounts) Create(context.Context, *domain.AccountNumber) (string, error) {
	return "", r.createErr
}

func TestAddAccountNumber_UniqueIndexBackstop(t *testing.T) {
	svc := NewAccountService(&racyAccounts{createErr: fmt.Errorf("insert: %w", repository.ErrDuplicate)})
	_, err := svc.AddAccountNumber(context.Background(), "alice", "12345")
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestAddAccountNumber_StoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewAccountService(&racyAccounts{createErr: boom})
	_, err := svc.AddAccountNumber(context.Background(), "alice", "12345")
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
}
