package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flywise/internal/service"
	"flywise/internal/session"
)

// respond writes the envelope every endpoint shares: success, message and
// any extra top-level fields.
func respond(c *gin.Context, status int, success bool, message string, extra gin.H) {
	body := gin.H{
		"success": success,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func unauthenticated(c *gin.Context) {
	c.Abort()
	respond(c, http.StatusUnauthorized, false, "Not authenticated", nil)
}

func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, false, message, nil)
}

// fail maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported with the generic fallback message.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respond(c, http.StatusBadRequest, false, ve.Message, nil)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, session.ErrInvalidSession):
		unauthenticated(c)
	case errors.Is(err, service.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, false, "Invalid credentials", nil)
	case errors.Is(err, service.ErrUserAlreadyExists):
		respond(c, http.StatusConflict, false, "User already exists", nil)
	case errors.Is(err, service.ErrAccountAlreadyExists):
		respond(c, http.StatusConflict, false, "This account already exists for this user!", nil)
	case errors.Is(err, service.ErrDuplicateReference):
		respond(c, http.StatusConflict, false, "A transaction with this reference number already exists", nil)
	case errors.Is(err, service.ErrStatementNotFound):
		respond(c, http.StatusNotFound, false, "Statement not found", nil)
	case errors.Is(err, service.ErrStorageUnavailable):
		respond(c, http.StatusServiceUnavailable, false, "Statement storage is not configured", nil)
	default:
		h.entry(c).WithError(err).Error(fallback)
		respond(c, http.StatusInternalServerError, false, fallback, nil)
	}
}
