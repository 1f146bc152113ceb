package repository

import (
	"context"

	"flywise/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
}
