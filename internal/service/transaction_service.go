package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

// CashTransactionInput carries a manually entered cash movement.
// Only presence is checked; amounts may be any value.
type CashTransactionInput struct {
	Amount          *float64
	Direction       string
	Date            string
	ReferenceNumber string
	Counterparty    string
}

// ImportRow is one transaction extracted from a bank message or statement.
type ImportRow struct {
	AccountNumber   string
	Direction       string
	Amount          *float64
	Date            string
	ReferenceNumber string
	Counterparty    string
}

// ImportSkip explains why a row was not stored.
type ImportSkip struct {
	Index           int
	ReferenceNumber string
	Reason          string
}

type ImportResult struct {
	Inserted []domain.Transaction
	Skipped  []ImportSkip
}

const (
	skipMissingFields  = "required fields missing"
	skipDuplicateRef   = "reference number already recorded"
	skipUnknownAccount = "no linked account matches the account number"
)

// TransactionService records and lists a user's transactions.
type TransactionService interface {
	AddCashTransaction(ctx context.Context, userID string, in CashTransactionInput) (*domain.Transaction, error)
	GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	ImportTransactions(ctx context.Context, userID string, rows []ImportRow) (*ImportResult, error)
}

type transactionService struct {
	txs      repository.TransactionRepository
	accounts repository.AccountRepository
	now      func() time.Time
}

func NewTransactionService(txs repository.TransactionRepository, accounts repository.AccountRepository) TransactionService {
	return &transactionService{
		txs:      txs,
		accounts: accounts,
		now:      time.Now,
	}
}

func (s *transactionService) AddCashTransaction(ctx context.Context, userID string, in CashTransactionInput) (*domain.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	if in.Amount == nil {
		return nil, invalid("amount is required")
	}
	direction := strings.ToLower(strings.TrimSpace(in.Direction))
	if direction == "" {
		return nil, invalid("credited_debited is required")
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.now().Format(domain.DateLayout)
	}

	ref := strings.TrimSpace(in.ReferenceNumber)
	if ref != "" {
		exists, err := s.txs.ExistsReference(ctx, userID, ref)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateReference
		}
	}

	tx := &domain.Transaction{
		UserID:          userID,
		Direction:       direction,
		Amount:          *in.Amount,
		Date:            date,
		ReferenceNumber: ref,
		Counterparty:    strings.TrimSpace(in.Counterparty),
		Source:          domain.TransactionSourceCash,
	}
	if _, err := s.txs.Create(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	txs, err := s.txs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

func (s *transactionService) ImportTransactions(ctx context.Context, userID string, rows []ImportRow) (*ImportResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load linked accounts: %w", err)
	}

	result := &ImportResult{
		Inserted: []domain.Transaction{},
		Skipped:  []ImportSkip{},
	}
	skip := func(i int, ref, reason string) {
		result.Skipped = append(result.Skipped, ImportSkip{Index: i, ReferenceNumber: ref, Reason: reason})
	}

	for i, row := range rows {
		ref := strings.TrimSpace(row.ReferenceNumber)
		if !row.complete() {
			skip(i, ref, skipMissingFields)
			continue
		}

		exists, err := s.txs.ExistsReference(ctx, userID, ref)
		if err != nil {
			return nil, err
		}
		if exists {
			skip(i, ref, skipDuplicateRef)
			continue
		}

		full, ok := matchAccount(accounts, row.AccountNumber)
		if !ok {
			skip(i, ref, skipUnknownAccount)
			continue
		}

		tx := domain.Transaction{
			UserID:          userID,
			AccountNumber:   full,
			Direction:       strings.ToLower(strings.TrimSpace(row.Direction)),
			Amount:          *row.Amount,
			Date:            strings.TrimSpace(row.Date),
			ReferenceNumber: ref,
			Counterparty:    strings.TrimSpace(row.Counterparty),
			Source:          domain.TransactionSourceImport,
		}
		if _, err := s.txs.Create(ctx, &tx); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				skip(i, ref, skipDuplicateRef)
				continue
			}
			return nil, err
		}
		result.Inserted = append(result.Inserted, tx)
	}

	return result, nil
}

func (r ImportRow) complete() bool {
	for _, v := range []string{r.AccountNumber, r.Direction, r.Date, r.ReferenceNumber} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return r.Amount != nil
}

// matchAccount resolves a masked or partial number such as "X1815" to the
// first linked account ending with its digits.
func matchAccount(accounts []domain.AccountNumber, partial string) (string, bool) {
	suffix := strings.TrimLeft(strings.TrimSpace(partial), "Xx*")
	if suffix == "" {
		return "", false
	}
	for _, acct := range accounts {
		if strings.HasSuffix(acct.AccountNumber, suffix) {
			return acct.AccountNumber, true
		}
	}
	return "", false
}
