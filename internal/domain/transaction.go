package domain

import "time"

type TransactionSource string

const (
	TransactionSourceCash   TransactionSource = "cash"
	TransactionSourceImport TransactionSource = "import"
)

// DateLayout is the day/month/year layout transaction dates are recorded in.
const DateLayout = "02/01/06"

// Transaction is a single money movement recorded for a user.
type Transaction struct {
	ID              string
	UserID          string
	AccountNumber   string
	Direction       string
	Amount          float64
	Date            string
	ReferenceNumber string
	Counterparty    string
	Source          TransactionSource
	CreatedAt       time.Time
}
