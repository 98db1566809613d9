package handlers

import (
	"net/http"

	"maideasy/services/user"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves OTP sign-in and sign-out.
type AuthHandler struct {
	Users user.UserService
}

func NewAuthHandler(users user.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

type sendOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Channel    string `json:"channel" binding:"required"`
}

type verifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Channel    string `json:"channel" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// SendOTPHandler issues a one-time code to a phone number or email.
func (h *AuthHandler) SendOTPHandler(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	identifier, err := h.Users.SendOTP(c.Request.Context(), req.Identifier, req.Channel)
	if err != nil {
		respondError(c, "Failed to send OTP", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent", "identifier": identifier})
}

// VerifyOTPHandler exchanges a valid code for a token.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Users.VerifyOTP(c.Request.Context(), req.Identifier, req.Channel, req.Code)
	if err != nil {
		respondError(c, "Verification failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignOutHandler revokes the caller's session.
func (h *AuthHandler) SignOutHandler(c *gin.Context) {
	if err := h.Users.SignOut(c.Request.Context(), c.GetString("token")); err != nil {
		respondError(c, "Failed to sign out", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
