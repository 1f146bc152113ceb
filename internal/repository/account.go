package repository

import (
	"context"

	"flywise/internal/domain"
)

// AccountRepository persists the account numbers linked to each user.
type AccountRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, account *domain.AccountNumber) (string, error)
	Find(ctx context.Context, userID, accountNumber string) (*domain.AccountNumber, error)
	// Delete removes the matching record and reports how many were removed.
	Delete(ctx context.Context, userID, accountNumber string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]domain.AccountNumber, error)
}
