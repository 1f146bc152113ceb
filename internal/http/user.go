package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flywise/internal/domain"
)

type credentialsRequest struct {
	Identifier string `json:"identifier"`
	Credential string `json:"credential"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	CreatedAt  string `json:"created_at"`
}

func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req.Identifier, req.Credential)
	if err != nil {
		h.fail(c, err, "Signup failed")
		return
	}
	if err := h.setSessionCookie(c, user.Identifier); err != nil {
		h.fail(c, err, "Signup failed")
		return
	}

	respond(c, http.StatusCreated, true, "User created", gin.H{"user": userToResponse(*user)})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Identifier, req.Credential)
	if err != nil {
		h.fail(c, err, "Login failed")
		return
	}
	if err := h.setSessionCookie(c, user.Identifier); err != nil {
		h.fail(c, err, "Login failed")
		return
	}

	respond(c, http.StatusOK, true, "Logged in", gin.H{"user": userToResponse(*user)})
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	respond(c, http.StatusOK, true, "Logged out", nil)
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Identifier: user.Identifier,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}
