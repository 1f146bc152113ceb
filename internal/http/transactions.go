package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flywise/internal/domain"
	"flywise/internal/service"
)

type cashTransactionRequest struct {
	Amount          *float64 `json:"amount"`
	CreditedDebited string   `json:"credited_debited"`
	Date            string   `json:"date"`
	ReferenceNumber string   `json:"reference_number"`
	ToFrom          string   `json:"to_from"`
}

type importRowRequest struct {
	AccountNumber   string   `json:"account_number"`
	CreditedDebited string   `json:"credited_debited"`
	Amount          *float64 `json:"amount"`
	Date            string   `json:"date"`
	ReferenceNumber string   `json:"reference_number"`
	ToFrom          string   `json:"to_from"`
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	AccountNumber   string  `json:"account_number,omitempty"`
	CreditedDebited string  `json:"credited_debited"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
	ToFrom          string  `json:"to_from,omitempty"`
	Source          string  `json:"source"`
	CreatedAt       string  `json:"created_at"`
}

type ImportSkipResponse struct {
	Index           int    `json:"index"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Reason          string `json:"reason"`
}

func (h *Handler) getTransactions(c *gin.Context) {
	txs, err := h.transactions.GetTransactions(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err, "Could not load transactions")
		return
	}

	resp := make([]TransactionResponse, len(txs))
	for i := range txs {
		resp[i] = transactionToResponse(txs[i])
	}
	respond(c, http.StatusOK, true, "Transactions loaded", gin.H{"transactions": resp})
}

func (h *Handler) addCashTransaction(c *gin.Context) {
	var req cashTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	tx, err := h.transactions.AddCashTransaction(c.Request.Context(), currentUser(c), service.CashTransactionInput{
		Amount:          req.Amount,
		Direction:       req.CreditedDebited,
		Date:            req.Date,
		ReferenceNumber: req.ReferenceNumber,
		Counterparty:    req.ToFrom,
	})
	if err != nil {
		h.fail(c, err, "Could not add transaction")
		return
	}

	respond(c, http.StatusCreated, true, "Transaction added", gin.H{"transaction": transactionToResponse(*tx)})
}

func (h *Handler) importTransactions(c *gin.Context) {
	var req []importRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Expected a JSON array of transactions")
		return
	}

	rows := make([]service.ImportRow, len(req))
	for i, r := range req {
		rows[i] = service.ImportRow{
			AccountNumber:   r.AccountNumber,
			Direction:       r.CreditedDebited,
			Amount:          r.Amount,
			Date:            r.Date,
			ReferenceNumber: r.ReferenceNumber,
			Counterparty:    r.ToFrom,
		}
	}

	result, err := h.transactions.ImportTransactions(c.Request.Context(), currentUser(c), rows)
	if err != nil {
		h.fail(c, err, "Could not import transactions")
		return
	}

	inserted := make([]TransactionResponse, len(result.Inserted))
	for i := range result.Inserted {
		inserted[i] = transactionToResponse(result.Inserted[i])
	}
	skipped := make([]ImportSkipResponse, len(result.Skipped))
	for i, s := range result.Skipped {
		skipped[i] = ImportSkipResponse{Index: s.Index, ReferenceNumber: s.ReferenceNumber, Reason: s.Reason}
	}

	respond(c, http.StatusOK, true, "Transactions imported", gin.H{
		"inserted_count":        len(inserted),
		"inserted_transactions": inserted,
		"skipped":               skipped,
	})
}

func transactionToResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		UserID:          tx.UserID,
		AccountNumber:   tx.AccountNumber,
		CreditedDebited: tx.Direction,
		Amount:          tx.Amount,
		Date:            tx.Date,
		ReferenceNumber: tx.ReferenceNumber,
		ToFrom:          tx.Counterparty,
		Source:          string(tx.Source),
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
}
