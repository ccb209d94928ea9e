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

type ProfileHandler struct {
	userRepo repository.UserRepository
}

func NewProfileHandler(userRepo repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := h.userRepo.FindUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to fetch user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
