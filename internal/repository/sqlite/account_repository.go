package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

const createAccountNumbersTable = `
CREATE TABLE IF NOT EXISTS account_numbers (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	account_number TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, account_number)
);
`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAccountNumbersTable); err != nil {
		return fmt.Errorf("create account_numbers table: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.AccountNumber) (string, error) {
	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO account_numbers (id, user_id, account_number, created_at)
VALUES (?, ?, ?, ?)`,
		account.ID,
		account.UserID,
		account.AccountNumber,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert account number: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert account number: %w", err)
	}
	return account.ID, nil
}

func (r *AccountRepository) Find(ctx context.Context, userID, accountNumber string) (*domain.AccountNumber, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, account_number, created_at
FROM account_numbers
WHERE user_id = ? AND account_number = ?`,
		userID,
		accountNumber,
	)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account number: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, userID, accountNumber string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM account_numbers WHERE user_id = ? AND account_number = ?`, userID, accountNumber)
	if err != nil {
		return 0, fmt.Errorf("delete account number: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("account delete rows affected: %w", err)
	}
	return aff, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.AccountNumber, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, account_number, created_at
FROM account_numbers
WHERE user_id = ?
ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query account numbers: %w", err)
	}
	defer rows.Close()

	accounts := []domain.AccountNumber{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func scanAccount(scanner interface {
	Scan(dest ...any) error
}) (*domain.AccountNumber, error) {
	var account domain.AccountNumber
	if err := scanner.Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan account number: %w", err)
	}
	return &account, nil
}
