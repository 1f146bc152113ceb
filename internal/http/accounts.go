package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flywise/internal/domain"
)

type accountNumberRequest struct {
	AccountNumber string `json:"account_number"`
}

type AccountResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	AccountNumber string `json:"account_number"`
	CreatedAt     string `json:"created_at"`
}

func (h *Handler) addAccountNumber(c *gin.Context) {
	var req accountNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Account number required")
		return
	}

	account, err := h.accounts.AddAccountNumber(c.Request.Context(), currentUser(c), req.AccountNumber)
	if err != nil {
		h.fail(c, err, "Could not add account")
		return
	}

	respond(c, http.StatusCreated, true, "Account added", gin.H{"account": accountToResponse(*account)})
}

func (h *Handler) deleteAccountNumber(c *gin.Context) {
	var req accountNumberRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
	}
	// some clients cannot send a body with DELETE
	if req.AccountNumber == "" {
		req.AccountNumber = c.Query("account_number")
	}

	deleted, err := h.accounts.DeleteAccountNumber(c.Request.Context(), currentUser(c), req.AccountNumber)
	if err != nil {
		h.fail(c, err, "Deletion failed")
		return
	}
	if !deleted {
		respond(c, http.StatusOK, false, "No such account was found", nil)
		return
	}
	respond(c, http.StatusOK, true, "Account deleted", nil)
}

func (h *Handler) listAccountNumbers(c *gin.Context) {
	accounts, err := h.accounts.ListAccountNumbers(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err, "Could not load accounts")
		return
	}

	resp := make([]AccountResponse, len(accounts))
	for i := range accounts {
		resp[i] = accountToResponse(accounts[i])
	}
	respond(c, http.StatusOK, true, "Accounts loaded", gin.H{"accounts": resp})
}

func accountToResponse(account domain.AccountNumber) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	}
}
