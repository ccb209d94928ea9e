package middleware

import (
	"log"
	"time"

	"main/config"
	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionMiddleware for downstream handlers.
const (
	ContextUserID  = "user_id"
	ContextSession = "session"
)

// SessionMiddleware resolves the session cookie to a session record and
// attaches the authenticated user id to the request context. Requests
// without a valid session pass through unauthenticated; RequireAuth
// decides whether that is acceptable for a route.
func SessionMiddleware(sessionRepo repository.SessionRepository, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cfg.CookieName)
		if err != nil {
			c.Next()
			return
		}

		sessionID, ok := utils.VerifySignedSessionID(cookie, cfg.Secret)
		if !ok {
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			log.Printf("Failed to resolve session %s: %v", sessionID, err)
			c.Next()
			return
		}
		if session == nil || !session.IsActive || session.Expired() {
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}

		// Sliding activity timestamp; a failed touch does not block the
		// request.
		if err := sessionRepo.UpdateSession(c.Request.Context(), session); err != nil {
			log.Printf("Failed to touch session %s: %v", sessionID, err)
		}

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextSession, session)
		c.Next()
	}
}

// CreateSession persists a new session for the user and issues the
// signed session cookie.
func CreateSession(c *gin.Context, userID string, sessionRepo repository.SessionRepository, cfg config.SessionConfig) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		SessionID:      utils.GenerateID(),
		UserID:         userID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(cfg.Duration),
		LastActivityAt: now,
		DeviceInfo:     utils.FormatDeviceInfo(c.Request.UserAgent()),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(c.Request.Context(), session); err != nil {
		return nil, err
	}

	c.SetSameSite(cfg.SameSite)
	c.SetCookie(
		cfg.CookieName,
		utils.SignSessionID(session.SessionID, cfg.Secret),
		int(cfg.Duration.Seconds()),
		"/",
		"",
		cfg.Secure,
		true,
	)

	return session, nil
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}
