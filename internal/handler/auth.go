// internal/handler/auth.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuthHandler struct {
	users *service.UserService
	store storage.UserStorage
}

func NewAuthHandler(users *service.UserService, store storage.UserStorage) *AuthHandler {
	return &AuthHandler{users: users, store: store}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.users.Register(context.Background(), req.Username, req.Password, req.Email)
	if err != nil {
		respondError(c, err, "Register")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    newUserResponse(user),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.users.Login(context.Background(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err, "Login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    newUserResponse(user),
		"token":   token,
	})
}

// Logout exists for contract parity; tokens are stateless, the client
// discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := userID(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

type UpdateProfileRequest struct {
	StartingBalance decimal.Decimal `json:"starting_balance" validate:"required"`
}

// UpdateProfile is the explicit path for changing the starting
// balance, which is otherwise immutable.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StartingBalance.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starting_balance cannot be negative"})
		return
	}

	balance := req.StartingBalance.Round(2)
	if err := h.store.UpdateStartingBalance(context.Background(), id, balance); err != nil {
		respondError(c, err, "UpdateProfile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": gin.H{"starting_balance": balance.StringFixed(2)},
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.store.FindUserByID(context.Background(), id)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"email":            user.Email,
			"starting_balance": user.StartingBalance.StringFixed(2),
			"date_joined":      user.CreatedAt.Format(time.RFC3339),
		},
	})
}
