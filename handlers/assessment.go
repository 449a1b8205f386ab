package handlers

import (
	"net/http"

	"mindcare/models"
	"mindcare/services/assessment"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssessmentHandler serves questionnaire submission and history.
type AssessmentHandler struct {
	Assessments assessment.AssessmentService
}

// Submit scores an answer sheet and stores the result.
// POST /api/assessments
func (h *AssessmentHandler) Submit(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req models.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.Assessments.Submit(c.Request.Context(), userID, req)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to score assessment", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

// History lists the user's past assessments, newest first.
// GET /api/assessments
func (h *AssessmentHandler) History(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	results, err := h.Assessments.History(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("failed to list assessments", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list assessments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": results})
}
