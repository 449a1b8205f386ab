package handlers

import (
	"errors"
	"net/http"

	appointmentRepo "mindcare/database/repository/appointment"
	"mindcare/services/booking"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves appointment listings and cancellation.
type AppointmentHandler struct {
	Appointments appointmentRepo.AppointmentRepository
	Booking      booking.BookingService
}

// ListForUser returns the authenticated user's appointments.
func (h *AppointmentHandler) ListForUser(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	appts, err := h.Appointments.ListByUser(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("failed to list appointments", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list appointments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// ListForPsychologist returns the authenticated psychologist's appointments,
// optionally narrowed to one date.
func (h *AppointmentHandler) ListForPsychologist(c *gin.Context) {
	psychologistID, ok := authedPsychologistID(c)
	if !ok {
		return
	}

	var (
		appts interface{}
		err   error
	)
	if date := c.Query("date"); date != "" {
		appts, err = h.Appointments.ListForDate(c.Request.Context(), psychologistID, date)
	} else {
		appts, err = h.Appointments.ListByPsychologist(c.Request.Context(), psychologistID)
	}
	if err != nil {
		zap.L().Error("failed to list appointments", zap.String("psychologistID", psychologistID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list appointments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// Cancel cancels a future appointment owned by the authenticated user and
// releases its slot.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	appt, err := h.Booking.CancelAppointment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrAppointmentNotFound) {
			utils.JSONError(c, http.StatusNotFound, "appointment not found", "")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "failed to cancel appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, appt)
}
