package handlers

import (
	"net/http"

	"maideasy/models"
	"maideasy/services/user"
	"maideasy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxAvatarBytes = 5 << 20

// ProfileHandler serves the signed-in user's profile.
type ProfileHandler struct {
	Users user.UserService
}

func NewProfileHandler(users user.UserService) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	u, err := h.Users.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, "Failed to load profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "isProfileComplete": u.IsProfileComplete()})
}

// CompleteProfileHandler stores the details collected after first sign-in.
func (h *ProfileHandler) CompleteProfileHandler(c *gin.Context) {
	var input user.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.CompleteProfile(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, "Failed to complete profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "isProfileComplete": u.IsProfileComplete()})
}

func (h *ProfileHandler) UpdateProfileHandler(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.UpdateUser(c.Request.Context(), currentUserID(c), update)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "isProfileComplete": u.IsProfileComplete()})
}

// UploadAvatarHandler accepts a multipart "file" field.
func (h *ProfileHandler) UploadAvatarHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", err.Error())
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "file too large", "avatar must be 5MB or smaller")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		getLogger(c).Error("Failed to open uploaded file", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "failed to read file"})
		return
	}
	defer file.Close()

	u, err := h.Users.UploadAvatar(c.Request.Context(), currentUserID(c), file)
	if err != nil {
		respondError(c, "Failed to upload avatar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
