package handlers

import (
	"errors"
	"net/http"

	"mindcare/services/availability"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves slot lookups for the booking flow.
type AvailabilityHandler struct {
	Availability availability.AvailabilityService
}

// ListSlots returns a psychologist's open slots for one date.
// GET /api/availability/:psychologistId?date=2026-09-07
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	psychologistID := c.Param("psychologistId")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required", "")
		return
	}

	slots, err := h.Availability.ListAvailableSlots(c.Request.Context(), psychologistID, date)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDate) {
			utils.JSONError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", date)
			return
		}
		zap.L().Error("slot lookup failed",
			zap.String("psychologistID", psychologistID), zap.String("date", date), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list availability", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"psychologistId": psychologistID,
		"date":           date,
		"slots":          slots,
	})
}
