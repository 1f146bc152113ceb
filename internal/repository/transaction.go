package repository

import (
	"context"

	"flywise/internal/domain"
)

// TransactionRepository persists immutable Transaction records.
type TransactionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, tx *domain.Transaction) (string, error)
	ExistsReference(ctx context.Context, userID, referenceNumber string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}
