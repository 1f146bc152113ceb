package service

import (
	"context"
	"errors"
	"strings"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

// AccountService manages the account numbers a user has linked.
type AccountService interface {
	AddAccountNumber(ctx context.Context, userID, accountNumber string) (*domain.AccountNumber, error)
	// DeleteAccountNumber reports false, without error, when nothing matched.
	DeleteAccountNumber(ctx context.Context, userID, accountNumber string) (bool, error)
	ListAccountNumbers(ctx context.Context, userID string) ([]domain.AccountNumber, error)
}

type accountService struct {
	accounts repository.AccountRepository
}

func NewAccountService(accounts repository.AccountRepository) AccountService {
	return &accountService{accounts: accounts}
}

func (s *accountService) AddAccountNumber(ctx context.Context, userID, accountNumber string) (*domain.AccountNumber, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, invalid("Account number required")
	}

	_, err := s.accounts.Find(ctx, userID, accountNumber)
	switch {
	case err == nil:
		return nil, ErrAccountAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	account := &domain.AccountNumber{
		UserID:        userID,
		AccountNumber: accountNumber,
	}
	if _, err := s.accounts.Create(ctx, account); err != nil {
		// a concurrent add slipped in between the lookup and the insert
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountAlreadyExists
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) DeleteAccountNumber(ctx context.Context, userID, accountNumber string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, ErrUnauthenticated
	}
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return false, invalid("Account number required")
	}

	deleted, err := s.accounts.Delete(ctx, userID, accountNumber)
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (s *accountService) ListAccountNumbers(ctx context.Context, userID string) ([]domain.AccountNumber, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.AccountNumber{}
	}
	return accounts, nil
}
