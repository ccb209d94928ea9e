package handler

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"log"

	"main/middleware"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

type TwoFactorHandler struct {
	userRepo repository.UserRepository
	issuer   string
}

func NewTwoFactorHandler(userRepo repository.UserRepository, issuer string) *TwoFactorHandler {
	return &TwoFactorHandler{userRepo: userRepo, issuer: issuer}
}

// GenerateSecret creates a new TOTP secret and QR code for the caller
// to scan. Nothing is persisted until Enable verifies a code.
func (h *TwoFactorHandler) GenerateSecret(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := h.userRepo.FindUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      h.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		log.Printf("Failed to generate TOTP key: %v", err)
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	img, err := key.Image(200, 200)
	if err != nil {
		utils.InternalError(c, "Failed to generate QR code")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		utils.InternalError(c, "Failed to encode QR code")
		return
	}

	c.JSON(200, gin.H{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

// Enable verifies a code against the supplied secret and persists it.
func (h *TwoFactorHandler) Enable(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID := c.GetString(middleware.ContextUserID)

	user, err := h.userRepo.FindUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is already enabled")
		return
	}

	if !totp.Validate(req.Code, req.Secret) {
		utils.BadRequest(c, "Invalid 2FA code")
		return
	}

	if err := h.userRepo.SetTwoFactor(c.Request.Context(), userID, req.Secret, true); err != nil {
		log.Printf("Failed to enable 2FA for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to enable 2FA")
		return
	}

	c.JSON(200, gin.H{"message": "2FA enabled successfully"})
}

// Disable turns 2FA off after verifying a current code.
func (h *TwoFactorHandler) Disable(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID := c.GetString(middleware.ContextUserID)

	user, err := h.userRepo.FindUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}

	if !user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is not enabled")
		return
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	if err := h.userRepo.SetTwoFactor(c.Request.Context(), userID, "", false); err != nil {
		log.Printf("Failed to disable 2FA for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to disable 2FA")
		return
	}

	c.JSON(200, gin.H{"message": "2FA disabled successfully"})
}
