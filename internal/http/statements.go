package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flywise/internal/domain"
)

const maxStatementBytes = 10 << 20

type StatementResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Size       int64   `json:"size"`
	UploadedAt *string `json:"uploaded_at,omitempty"`
	URL        string  `json:"url,omitempty"`
}

func (h *Handler) uploadStatement(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fh.Size > maxStatementBytes {
		badRequest(c, fmt.Sprintf("file exceeds %d MB", maxStatementBytes>>20))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, err, "Could not read upload")
		return
	}
	defer f.Close()

	stmt, err := h.statements.Upload(c.Request.Context(), currentUser(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.fail(c, err, "Could not store statement")
		return
	}
	stmt.Size = fh.Size

	respond(c, http.StatusCreated, true, "Statement uploaded", gin.H{"statement": statementToResponse(*stmt)})
}

func (h *Handler) listStatements(c *gin.Context) {
	stmts, err := h.statements.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err, "Could not list statements")
		return
	}

	resp := make([]StatementResponse, len(stmts))
	for i := range stmts {
		resp[i] = statementToResponse(stmts[i])
	}
	respond(c, http.StatusOK, true, "Statements loaded", gin.H{"statements": resp})
}

func (h *Handler) deleteStatement(c *gin.Context) {
	if err := h.statements.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.fail(c, err, "Could not delete statement")
		return
	}
	respond(c, http.StatusOK, true, "Statement deleted", nil)
}

func statementToResponse(stmt domain.Statement) StatementResponse {
	resp := StatementResponse{
		ID:   stmt.ID,
		Name: stmt.Name,
		Size: stmt.Size,
		URL:  stmt.URL,
	}
	if stmt.UploadedAt != nil && !stmt.UploadedAt.IsZero() {
		v := stmt.UploadedAt.Format(time.RFC3339)
		resp.UploadedAt = &v
	}
	return resp
}
