package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/leadhub/leadhub/config"
	apierrors "github.com/leadhub/leadhub/pkg/api/errors"
	"github.com/leadhub/leadhub/pkg/auth"
	"github.com/leadhub/leadhub/pkg/metrics"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/store"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users     store.UserStore
	config    *config.Config
	blacklist *auth.TokenBlacklist
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users store.UserStore, cfg *config.Config, blacklist *auth.TokenBlacklist, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		users:     users,
		config:    cfg,
		blacklist: blacklist,
		metrics:   m,
		validator: validator.New(),
	}
}

// Register creates a new user account and returns a token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return apierrors.InternalError(c, err)
	}

	user, err := h.users.CreateUser(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   "user_exists",
				Message: "User already exists",
			})
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.UsersRegistered.Inc()
	}

	token, err := auth.GenerateJWT(user.ID, user.Username, h.config.JWTSecret, h.config.JWTExpirationHours)
	if err != nil {
		return apierrors.InternalError(c, err)
	}

	return c.JSON(http.StatusCreated, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return apierrors.StoreError(c, err)
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		if h.metrics != nil {
			h.metrics.LoginAttempts.WithLabelValues("failed").Inc()
		}
		return apierrors.UnauthorizedError(c, "Invalid credentials")
	}

	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	}

	token, err := auth.GenerateJWT(user.ID, user.Username, h.config.JWTSecret, h.config.JWTExpirationHours)
	if err != nil {
		return apierrors.InternalError(c, err)
	}

	return c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return apierrors.UnauthorizedError(c, "Not authorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierrors.NotFoundError(c, "User")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    userInfo(user),
	})
}

// Logout revokes the current token by blacklisting it for the remainder of
// its lifetime.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := c.Get("token").(string)
	if !ok || token == "" {
		return apierrors.UnauthorizedError(c, "Not authorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.blacklist != nil {
		fallback := time.Hour * time.Duration(h.config.JWTExpirationHours)
		if err := h.blacklist.Revoke(ctx, token, h.config.JWTSecret, fallback); err != nil {
			return apierrors.InternalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    map[string]any{},
		Message: "Logged out successfully",
	})
}

func userInfo(u *models.User) *models.UserInfo {
	return &models.UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
