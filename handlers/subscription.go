package handlers

import (
	"errors"
	"net/http"

	"mindcare/services/subscription"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionHandler serves the premium plan endpoints.
type SubscriptionHandler struct {
	Subscriptions subscription.SubscriptionService
}

// Subscribe opens a pending subscription and returns the payment client secret.
// POST /api/subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.Subscriptions.Subscribe(c.Request.Context(), userID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrUnknownPlan):
			utils.JSONError(c, http.StatusBadRequest, "unknown plan", req.Plan)
		case errors.Is(err, subscription.ErrAlreadySubscribed):
			utils.JSONError(c, http.StatusConflict, "an active subscription already exists", "")
		default:
			zap.L().Error("subscription checkout failed", zap.String("userID", userID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to start subscription", "")
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Activate marks a paid subscription active.
// POST /api/subscriptions/:id/activate
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	sub, err := h.Subscriptions.Activate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			utils.JSONError(c, http.StatusNotFound, "subscription not found", "")
			return
		}
		zap.L().Error("subscription activation failed", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to activate subscription", "")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Cancel ends the subscription.
// DELETE /api/subscriptions/:id
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	if err := h.Subscriptions.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			utils.JSONError(c, http.StatusNotFound, "subscription not found", "")
			return
		}
		zap.L().Error("subscription cancellation failed", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel subscription", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// Current returns the active subscription, or 204 when there is none.
// GET /api/subscriptions/current
func (h *SubscriptionHandler) Current(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	sub, err := h.Subscriptions.Current(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("subscription lookup failed", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load subscription", "")
		return
	}
	if sub == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, sub)
}
