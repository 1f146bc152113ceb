package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flywise/internal/session"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userIDKey       = "user_id"
)

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Writer.Header().Set(requestIDHeader, reqID)

		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Warn("request failed")
		default:
			entry.Info("request handled")
		}
	}
}

// requireUser resolves the acting user from the session cookie and rejects
// the request before any handler runs when it is missing or invalid.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)
		if err != nil || raw == "" {
			unauthenticated(c)
			return
		}
		userID, err := h.sessions.Decode(raw)
		if err != nil {
			h.entry(c).WithError(err).Debug("rejected session cookie")
			unauthenticated(c)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func (h *Handler) entry(c *gin.Context) *logrus.Entry {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}

func (h *Handler) setSessionCookie(c *gin.Context, userID string) error {
	value, err := h.sessions.Encode(userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)
	return nil
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.cookieSecure, true)
}
