package handlers

import (
	"errors"
	"net/http"

	"mindcare/models"
	"mindcare/services/availability"
	"mindcare/services/booking"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler drives the session-based booking flow.
type BookingHandler struct {
	Booking booking.BookingService
}

// StartSession opens a booking session against a psychologist and date.
// POST /api/booking/session
func (h *BookingHandler) StartSession(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req struct {
		PsychologistID   string `json:"psychologistId" binding:"required"`
		Date             string `json:"date" binding:"required"`
		ConsultationType string `json:"consultationType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	session, err := h.Booking.StartSession(c.Request.Context(), userID, req.PsychologistID, req.Date, req.ConsultationType)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDate) {
			utils.JSONError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", req.Date)
			return
		}
		zap.L().Error("failed to start booking session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to start booking", "")
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectSlot records the chosen timeslot on an open session.
// PUT /api/booking/session/:sessionID
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	session, err := h.Booking.SelectSlot(c.Request.Context(), userID, c.Param("sessionID"), input)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
		case errors.Is(err, booking.ErrSlotUnavailable):
			utils.JSONError(c, http.StatusConflict, "the selected slot is no longer available", "")
		default:
			utils.JSONError(c, http.StatusBadRequest, "failed to select slot", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// Confirm books the selected slot and creates the appointment.
// POST /api/booking/session/:sessionID/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	appt, err := h.Booking.Confirm(c.Request.Context(), userID, c.Param("sessionID"))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
		case errors.Is(err, booking.ErrNoSlotSelected):
			utils.JSONError(c, http.StatusBadRequest, "select a timeslot before confirming", "")
		case errors.Is(err, booking.ErrSlotUnavailable):
			utils.JSONError(c, http.StatusConflict, "the selected slot was just taken", "")
		default:
			zap.L().Error("booking confirmation failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to confirm booking", "")
		}
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// CancelSession abandons an open booking session.
// DELETE /api/booking/session/:sessionID
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}

	if err := h.Booking.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel session", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
