package handler

import (
	"errors"
	"log"
	"net/http"

	"account_service/internal/middleware"
	"account_service/internal/service"
	"account_service/internal/validation"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	_, err := h.service.Signup(c.Request.Context(), service.SignupInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		var vErr *validation.Error
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username is already taken"})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		default:
			h.serverError(c, "signup", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		h.serverError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		h.serverError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteByID(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.service.DeleteByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.serverError(c, "delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) GetSelf(c *gin.Context) {
	// The user's ID comes from the verified token, not from user input
	userID := c.GetString(middleware.AuthUserKey)

	user, err := h.service.GetSelf(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.serverError(c, "get self", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString(middleware.AuthUserKey)

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		h.serverError(c, "logout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
}

func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.serverError(c, "request password reset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset email sent"})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req struct {
		ResetToken  string `json:"resetToken" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		var vErr *validation.Error
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		default:
			h.serverError(c, "reset password", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// serverError logs the detail and answers with a generic message; internal
// error text is never echoed to the caller.
func (h *UserHandler) serverError(c *gin.Context, op string, err error) {
	log.Printf("ERROR: %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

// RegisterUserRoutes registers user account routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	userGroup := rg.Group("/user")
	{
		userGroup.POST("/signup", h.Signup)
		userGroup.POST("/login", h.Login)
		userGroup.GET("", authMW, adminMW, h.GetAllUsers)
		userGroup.DELETE("/:userId", h.DeleteByID)
		userGroup.GET("/me", authMW, h.GetSelf)
		userGroup.POST("/reset-password", h.ResetPassword)
		userGroup.POST("/request-password-reset", h.RequestPasswordReset)
		userGroup.POST("/logout", authMW, h.Logout)
	}
}
