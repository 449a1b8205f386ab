package handlers

import (
	"net/http"
	"strconv"

	"mindcare/middleware"
	"mindcare/models"
	"mindcare/services/psychologist"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PsychologistHandler serves discovery and the psychologist's own endpoints.
type PsychologistHandler struct {
	Psychologists psychologist.PsychologistService
}

func authedPsychologistID(c *gin.Context) (string, bool) {
	id, exists := c.Get(middleware.ContextPsychologistID)
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}
	return id.(string), true
}

// Discover lists verified psychologists matching the query filters.
// GET /api/psychologists?specialization=anxiety&maxFee=100&minRating=4
func (h *PsychologistHandler) Discover(c *gin.Context) {
	filter := models.PsychologistFilter{
		Specialization: c.Query("specialization"),
	}
	if v := c.Query("maxFee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid maxFee", v)
			return
		}
		filter.MaxFee = fee
	}
	if v := c.Query("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid minRating", v)
			return
		}
		filter.MinRating = rating
	}

	results, err := h.Psychologists.Discover(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("discovery query failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list psychologists", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"psychologists": results})
}

// GetByID returns one psychologist's public profile.
func (h *PsychologistHandler) GetByID(c *gin.Context) {
	p, err := h.Psychologists.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "psychologist not found", "")
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile patches the authenticated psychologist's editable fields.
func (h *PsychologistHandler) UpdateProfile(c *gin.Context) {
	psychologistID, ok := authedPsychologistID(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	p, err := h.Psychologists.UpdateProfile(c.Request.Context(), psychologistID, fields)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to update profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

// Rate records a 1..5 rating for a psychologist.
func (h *PsychologistHandler) Rate(c *gin.Context) {
	var req struct {
		Rating float64 `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := h.Psychologists.Rate(c.Request.Context(), c.Param("id"), req.Rating); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to record rating", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetSchedule replaces the authenticated psychologist's slots for one weekday.
func (h *PsychologistHandler) SetSchedule(c *gin.Context) {
	psychologistID, ok := authedPsychologistID(c)
	if !ok {
		return
	}

	var req struct {
		DayOfWeek   string            `json:"dayOfWeek" binding:"required"`
		TimeSlots   []models.TimeSlot `json:"timeSlots" binding:"required"`
		IsRecurring bool              `json:"isRecurring"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	schedule, err := h.Psychologists.SetSchedule(c.Request.Context(), psychologistID,
		models.Weekday(req.DayOfWeek), req.TimeSlots, req.IsRecurring)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to set schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// Logout revokes the current session token.
func (h *PsychologistHandler) Logout(c *gin.Context) {
	psychologistID, ok := authedPsychologistID(c)
	if !ok {
		return
	}

	if err := h.Psychologists.RevokeToken(c.Request.Context(), psychologistID); err != nil {
		zap.L().Error("failed to revoke token", zap.String("psychologistID", psychologistID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "logout failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
