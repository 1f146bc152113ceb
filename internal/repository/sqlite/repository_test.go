package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flywise.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	// Init is idempotent
	require.NoError(t, repo.Init(context.Background()))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	id, err := repo.Create(ctx, &domain.User{Identifier: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = repo.Create(ctx, &domain.User{Identifier: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	user, err := repo.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = repo.GetByIdentifier(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	for _, n := range []string{"C", "A", "B"} {
		_, err := repo.Create(ctx, &domain.AccountNumber{UserID: "alice", AccountNumber: n})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &domain.AccountNumber{UserID: "alice", AccountNumber: "A"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	_, err = repo.Create(ctx, &domain.AccountNumber{UserID: "bob", AccountNumber: "A"})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	var numbers []string
	for _, a := range list {
		numbers = append(numbers, a.AccountNumber)
	}
	assert.Equal(t, []string{"C", "A", "B"}, numbers)

	found, err := repo.Find(ctx, "bob", "A")
	require.NoError(t, err)
	assert.Equal(t, "bob", found.UserID)
	_, err = repo.Find(ctx, "bob", "C")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := repo.Delete(ctx, "alice", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.Delete(ctx, "alice", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = repo.Find(ctx, "bob", "A")
	assert.NoError(t, err)

	empty, err := repo.ListByUser(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	first := &domain.Transaction{UserID: "alice", Direction: "debited", Amount: 12.5, Date: "01/02/25", ReferenceNumber: "R1", Source: domain.TransactionSourceCash}
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Transaction{UserID: "alice", Direction: "credited", Amount: 1, ReferenceNumber: "R1", Source: domain.TransactionSourceImport})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// blank references are not unique
	for i := 0; i < 2; i++ {
		_, err = repo.Create(ctx, &domain.Transaction{UserID: "alice", Direction: "credited", Amount: 3, Source: domain.TransactionSourceCash})
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, &domain.Transaction{UserID: "bob", Direction: "credited", Amount: 3, ReferenceNumber: "R1", Source: domain.TransactionSourceCash})
	require.NoError(t, err)

	exists, err := repo.ExistsReference(ctx, "alice", "R1")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsReference(ctx, "alice", "R2")
	require.NoError(t, err)
	assert.False(t, exists)

	txs, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, first.ID, txs[0].ID)
	assert.Equal(t, 12.5, txs[0].Amount)
	assert.Equal(t, domain.TransactionSourceCash, txs[0].Source)
	assert.Equal(t, "01/02/25", txs[0].Date)
}
