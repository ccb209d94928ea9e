package handler

import (
	"log"
	"net/http"

	"main/dto"
	"main/middleware"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	userRepo    repository.UserRepository
	notesRepo   repository.NoteRepository
	sessionRepo repository.SessionRepository
}

func NewStatsHandler(userRepo repository.UserRepository, notesRepo repository.NoteRepository, sessionRepo repository.SessionRepository) *StatsHandler {
	return &StatsHandler{
		userRepo:    userRepo,
		notesRepo:   notesRepo,
		sessionRepo: sessionRepo,
	}
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.ContextUserID)

	user, err := h.userRepo.FindUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	totalNotes, err := h.notesRepo.CountUserNotes(ctx, userID)
	if err != nil {
		log.Printf("Error counting notes: %v", err)
		utils.InternalError(c, "Failed to count notes")
		return
	}

	sessions, err := h.sessionRepo.GetUserActiveSessions(ctx, userID)
	if err != nil {
		log.Printf("Error getting sessions: %v", err)
		utils.InternalError(c, "Failed to get sessions")
		return
	}

	stats := dto.UserStatsResponse{
		TotalNotes:     totalNotes,
		ActiveSessions: len(sessions),
		AccountCreated: user.CreatedAt,
	}

	if len(sessions) > 0 {
		lastActive := sessions[0].LastActivityAt
		for _, session := range sessions {
			if session.LastActivityAt.After(lastActive) {
				lastActive = session.LastActivityAt
			}
		}
		stats.LastActive = lastActive
	}

	c.JSON(http.StatusOK, stats)
}
