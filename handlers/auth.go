package handlers

import (
	"errors"
	"net/http"

	"mindcare/models"
	"mindcare/services/psychologist"
	"mindcare/services/user"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves signup and signin for both roles.
type AuthHandler struct {
	Users         user.UserService
	Psychologists psychologist.PsychologistService
}

// RegisterUser handles POST /api/auth/users/register.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	u, token, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "email already registered", "")
			return
		}
		zap.L().Error("user registration failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "registration failed", "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

// LoginUser handles POST /api/auth/users/login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	u, token, err := h.Users.Authenticate(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid email or password", "")
			return
		}
		zap.L().Error("user login failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "login failed", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// RegisterPsychologist handles POST /api/auth/psychologists/register.
func (h *AuthHandler) RegisterPsychologist(c *gin.Context) {
	var req models.PsychologistRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	p, token, err := h.Psychologists.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "email already registered", "")
			return
		}
		zap.L().Error("psychologist registration failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "registration failed", "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"psychologist": p, "token": token})
}

// LoginPsychologist handles POST /api/auth/psychologists/login.
func (h *AuthHandler) LoginPsychologist(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	p, token, err := h.Psychologists.Authenticate(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid email or password", "")
			return
		}
		zap.L().Error("psychologist login failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "login failed", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"psychologist": p, "token": token})
}
