package domain

import "time"

// AccountNumber links a bank account number to the user owning it.
type AccountNumber struct {
	ID            string
	UserID        string
	AccountNumber string
	CreatedAt     time.Time
}
