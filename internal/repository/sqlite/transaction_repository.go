package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	credited_debited TEXT NOT NULL,
	amount REAL NOT NULL,
	date TEXT NOT NULL DEFAULT '',
	reference_number TEXT NOT NULL DEFAULT '',
	to_from TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_user_reference
	ON transactions(user_id, reference_number) WHERE reference_number <> '';
`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTransactionsTable); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (string, error) {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (id, user_id, account_number, credited_debited, amount, date, reference_number, to_from, source, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.UserID,
		tx.AccountNumber,
		tx.Direction,
		tx.Amount,
		tx.Date,
		tx.ReferenceNumber,
		tx.Counterparty,
		string(tx.Source),
		tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert transaction: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return tx.ID, nil
}

func (r *TransactionRepository) ExistsReference(ctx context.Context, userID, referenceNumber string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(1) FROM transactions
WHERE user_id = ? AND reference_number = ?`,
		userID,
		referenceNumber,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count transactions by reference: %w", err)
	}
	return count > 0, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, account_number, credited_debited, amount, date, reference_number, to_from, source, created_at
FROM transactions
WHERE user_id = ?
ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var (
			tx     domain.Transaction
			source string
		)
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.AccountNumber,
			&tx.Direction,
			&tx.Amount,
			&tx.Date,
			&tx.ReferenceNumber,
			&tx.Counterparty,
			&source,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Source = domain.TransactionSource(source)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
