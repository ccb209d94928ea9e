package handler

import (
	"errors"
	"log"
	"net/http"

	"main/config"
	"main/dto"
	"main/middleware"
	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

type AuthHandler struct {
	userService *usecase.UserService
	sessionRepo repository.SessionRepository
	sessionCfg  config.SessionConfig
}

func NewAuthHandler(userService *usecase.UserService, sessionRepo repository.SessionRepository, sessionCfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessionRepo: sessionRepo,
		sessionCfg:  sessionCfg,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			utils.Conflict(c, "User already exists")
			return
		}
		log.Printf("Registration failed: %v", err)
		utils.InternalError(c, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.userService.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			// Same response for unknown email and wrong password.
			utils.Unauthorized(c, "Invalid email or password")
			return
		}
		log.Printf("Login failed: %v", err)
		utils.InternalError(c, "Failed to log in")
		return
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			utils.TrackAuthAttempt("pending", "2fa")
			c.JSON(http.StatusOK, gin.H{
				"requires_2fa": true,
				"message":      "2FA code required",
			})
			return
		}
		if !totp.Validate(req.TwoFactorCode, user.TwoFactorSecret) {
			utils.TrackAuthAttempt("failure", "2fa")
			utils.Unauthorized(c, "Invalid 2FA code")
			return
		}
		utils.TrackAuthAttempt("success", "2fa")
	}

	if _, err := middleware.CreateSession(c, user.ID, h.sessionRepo, h.sessionCfg); err != nil {
		log.Printf("Failed to create session for user %s: %v", user.ID, err)
		utils.InternalError(c, "Failed to create session")
		return
	}

	utils.TrackAuthAttempt("success", "login")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    dto.ToUserResponse(user),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	value, exists := c.Get(middleware.ContextSession)
	if !exists {
		utils.Unauthorized(c, "Authentication required")
		return
	}
	session := value.(*model.Session)

	if err := h.sessionRepo.DeleteSession(c.Request.Context(), session.SessionID); err != nil {
		log.Printf("Failed to destroy session %s: %v", session.SessionID, err)
		utils.InternalError(c, "Could not log out")
		return
	}

	middleware.ClearSessionCookie(c, h.sessionCfg)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
