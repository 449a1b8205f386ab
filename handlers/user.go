package handlers

import (
	"net/http"

	"mindcare/middleware"
	"mindcare/services/user"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the authenticated user's account endpoints.
type UserHandler struct {
	Users user.UserService
}

func authedUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(middleware.ContextUserID)
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}
	return id.(string), true
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	u, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("failed to fetch profile", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve profile", "")
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfile patches the authenticated user's editable fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	u, err := h.Users.Update(c.Request.Context(), userID, fields)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to update profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateFCMToken registers the device push token.
func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := h.Users.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		zap.L().Error("failed to save fcm token", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to save push token", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Logout revokes the current session token.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	if err := h.Users.RevokeToken(c.Request.Context(), userID); err != nil {
		zap.L().Error("failed to revoke token", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "logout failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteAccount removes the account and its session.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	if err := h.Users.Delete(c.Request.Context(), userID); err != nil {
		zap.L().Error("failed to delete account", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete account", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
