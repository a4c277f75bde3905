package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskhive/internal/application"
	"github.com/taskhive/taskhive/internal/domain/entity"
	"github.com/taskhive/taskhive/internal/interface/middleware"
	"github.com/taskhive/taskhive/pkg/response"
	"github.com/taskhive/taskhive/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userJSON is the public user shape; password material never appears here.
func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"is_active": u.IsActive,
	}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrDuplicateUsername):
			response.Error(c, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, application.ErrDuplicateEmail):
			response.Error(c, http.StatusBadRequest, "Email already registered")
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, userJSON(u))
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "Username not found")
		case errors.Is(err, application.ErrIncorrectPassword):
			response.Error(c, http.StatusUnauthorized, "Incorrect password")
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "login failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	response.JSON(c, http.StatusOK, userJSON(u))
}

// currentUser reads the identity the auth gateway stored in the context.
func currentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
