package handlers

import (
	"net/http"
	"strconv"

	"mindcare/services/mood"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MoodHandler serves daily mood check-ins.
type MoodHandler struct {
	Moods mood.MoodService
}

// Record stores the day's mood check-in; re-recording the same date overwrites.
// POST /api/moods
func (h *MoodHandler) Record(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req struct {
		Mood string `json:"mood" binding:"required"`
		Note string `json:"note"`
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entry, err := h.Moods.Record(c.Request.Context(), userID, req.Mood, req.Note, req.Date)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to record mood", err.Error())
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// History lists the user's check-ins, optionally within a date range.
// GET /api/moods?from=2026-08-01&to=2026-08-31
func (h *MoodHandler) History(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	entries, err := h.Moods.History(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		zap.L().Error("failed to list mood history", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list mood history", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Summary aggregates the trailing N days (default 7).
// GET /api/moods/summary?days=30
func (h *MoodHandler) Summary(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid days", v)
			return
		}
		days = parsed
	}

	summary, err := h.Moods.Summary(c.Request.Context(), userID, days)
	if err != nil {
		zap.L().Error("failed to build mood summary", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to build mood summary", "")
		return
	}
	c.JSON(http.StatusOK, summary)
}
