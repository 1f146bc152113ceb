//go:build integration

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

func startMongo(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := Open(ctx, Config{URL: uri, Name: "flywise_test", ConnectTimeout: 20 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}

func TestOpen_FailsFastOnUnreachableServer(t *testing.T) {
	_, err := Open(context.Background(), Config{
		URL:            "mongodb://127.0.0.1:1",
		Name:           "flywise",
		ConnectTimeout: 500 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestRepositories(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	users := NewUserRepository(db.Database())
	accounts := NewAccountRepository(db.Database())
	txs := NewTransactionRepository(db.Database())
	require.NoError(t, users.Init(ctx))
	require.NoError(t, accounts.Init(ctx))
	require.NoError(t, txs.Init(ctx))

	t.Run("users", func(t *testing.T) {
		_, err := users.Create(ctx, &domain.User{Identifier: "alice", PasswordHash: "h"})
		require.NoError(t, err)
		_, err = users.Create(ctx, &domain.User{Identifier: "alice", PasswordHash: "h"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		u, err := users.GetByIdentifier(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "h", u.PasswordHash)
		_, err = users.GetByIdentifier(ctx, "nobody")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("accounts", func(t *testing.T) {
		for _, n := range []string{"C", "A", "B"} {
			_, err := accounts.Create(ctx, &domain.AccountNumber{UserID: "alice", AccountNumber: n})
			require.NoError(t, err)
		}
		_, err := accounts.Create(ctx, &domain.AccountNumber{UserID: "alice", AccountNumber: "A"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		list, err := accounts.ListByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "C", list[0].AccountNumber)

		n, err := accounts.Delete(ctx, "alice", "A")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		_, err = accounts.Find(ctx, "alice", "A")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("transactions", func(t *testing.T) {
		_, err := txs.Create(ctx, &domain.Transaction{UserID: "alice", Direction: "debited", Amount: 4, ReferenceNumber: "R1", Source: domain.TransactionSourceImport})
		require.NoError(t, err)
		_, err = txs.Create(ctx, &domain.Transaction{UserID: "alice", Direction: "debited", Amount: 4, ReferenceNumber: "R1", Source: domain.TransactionSourceImport})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		for i := 0; i < 2; i++ {
			_, err = txs.Create(ctx, &domain.Transaction{UserID: "alice", Direction: "credited", Amount: 1, Source: domain.TransactionSourceCash})
			require.NoError(t, err)
		}

		exists, err := txs.ExistsReference(ctx, "alice", "R1")
		require.NoError(t, err)
		assert.True(t, exists)

		list, err := txs.ListByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})
}
