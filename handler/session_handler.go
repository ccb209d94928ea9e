package handler

import (
	"log"

	"main/config"
	"main/middleware"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionRepo repository.SessionRepository
	sessionCfg  config.SessionConfig
}

func NewSessionHandler(sessionRepo repository.SessionRepository, sessionCfg config.SessionConfig) *SessionHandler {
	return &SessionHandler{sessionRepo: sessionRepo, sessionCfg: sessionCfg}
}

// GetActiveSessions lists the caller's live sessions with their device
// info and activity timestamps.
func (h *SessionHandler) GetActiveSessions(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	sessions, err := h.sessionRepo.GetUserActiveSessions(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to fetch sessions for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.ActiveSessions.Set(float64(len(sessions)))
	c.JSON(200, gin.H{"sessions": sessions})
}

// LogoutAll destroys every session belonging to the caller, including
// the current one.
func (h *SessionHandler) LogoutAll(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	if err := h.sessionRepo.DeleteUserSessions(c.Request.Context(), userID); err != nil {
		log.Printf("Failed to end sessions for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to end all sessions")
		return
	}

	middleware.ClearSessionCookie(c, h.sessionCfg)
	c.JSON(200, gin.H{"message": "Successfully logged out of all sessions"})
}
