package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"mindcare/middleware"
	"mindcare/models"
	"mindcare/services/chat"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves messaging endpoints for both roles.
type ChatHandler struct {
	Chat chat.ChatService
}

// authedParticipantID resolves the caller from either auth middleware.
func authedParticipantID(c *gin.Context) (string, bool) {
	if id, exists := c.Get(middleware.ContextUserID); exists {
		return id.(string), true
	}
	if id, exists := c.Get(middleware.ContextPsychologistID); exists {
		return id.(string), true
	}
	utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "")
	return "", false
}

func chatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "chat room not found", "")
	case errors.Is(err, chat.ErrNotParticipant):
		utils.JSONError(c, http.StatusForbidden, "not a participant of this chat room", "")
	case errors.Is(err, chat.ErrAppointmentNotChattable):
		utils.JSONError(c, http.StatusConflict, "chat opens once the appointment is confirmed", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "chat operation failed", "")
	}
}

// OpenRoom returns (creating if needed) the room for an appointment.
// POST /api/chat/rooms
func (h *ChatHandler) OpenRoom(c *gin.Context) {
	callerID, ok := authedParticipantID(c)
	if !ok {
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	room, err := h.Chat.OpenRoom(c.Request.Context(), callerID, req.AppointmentID)
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ListRooms lists the caller's rooms.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	callerID, ok := authedParticipantID(c)
	if !ok {
		return
	}

	rooms, err := h.Chat.Rooms(c.Request.Context(), callerID)
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// Send posts a message to a room.
// POST /api/chat/rooms/:roomID/messages
func (h *ChatHandler) Send(c *gin.Context) {
	callerID, ok := authedParticipantID(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	msg, err := h.Chat.Send(c.Request.Context(), callerID, c.Param("roomID"), req)
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Messages lists a room's recent messages.
// GET /api/chat/rooms/:roomID/messages?limit=50
func (h *ChatHandler) Messages(c *gin.Context) {
	callerID, ok := authedParticipantID(c)
	if !ok {
		return
	}

	limit := int64(50)
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", v)
			return
		}
		limit = parsed
	}

	msgs, err := h.Chat.Messages(c.Request.Context(), callerID, c.Param("roomID"), limit)
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkRead flags the other party's messages as read.
// POST /api/chat/rooms/:roomID/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	callerID, ok := authedParticipantID(c)
	if !ok {
		return
	}

	if err := h.Chat.MarkRead(c.Request.Context(), callerID, c.Param("roomID")); err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stream pushes new room messages to the client as server-sent events until
// the client disconnects.
// GET /api/chat/rooms/:roomID/stream
func (h *ChatHandler) Stream(c *gin.Context) {
	callerID, ok := authedParticipantID(c)
	if !ok {
		return
	}

	sub, err := h.Chat.Subscribe(c.Request.Context(), callerID, c.Param("roomID"))
	if err != nil {
		chatError(c, err)
		return
	}
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-sub.Messages:
			if !open {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
