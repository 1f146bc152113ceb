package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"flywise/internal/repository"
	"flywise/internal/repository/sqlite"
)

type testRepos struct {
	users        repository.UserRepository
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := testRepos{
		users:        sqlite.NewUserRepository(db),
		accounts:     sqlite.NewAccountRepository(db),
		transactions: sqlite.NewTransactionRepository(db),
	}
	require.NoError(t, repos.users.Init(ctx))
	require.NoError(t, repos.accounts.Init(ctx))
	require.NoError(t, repos.transactions.Init(ctx))
	return repos
}

func newFastUserService(users repository.UserRepository) UserService {
	return NewUserServiceWithCost(users, bcrypt.MinCost)
}

func floatPtr(v float64) *float64 { return &v }

