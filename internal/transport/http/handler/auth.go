package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingvoapp/auth-service/internal/domain"
	"github.com/lingvoapp/auth-service/internal/metrics"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	RequestCode(ctx context.Context, phone string, chatID int64) error
	Login(ctx context.Context, phone, code string, telegramID int64) (*domain.TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type sendCodeRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	// TelegramChatID is supplied by the bot for phones the platform has
	// never seen; ignored when the phone already maps to a user.
	TelegramChatID int64 `json:"telegram_chat_id"`
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Code        string `json:"code" binding:"required"`
	TelegramID  int64  `json:"telegram_id"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// POST /auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.RequestCode(c.Request.Context(), req.PhoneNumber, req.TelegramChatID)
	switch {
	case err == nil:
		metrics.CodesIssuedTotal.Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Code sent successfully"})
	case errors.Is(err, domain.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidPhone.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found. Please register via Telegram bot first."})
	case errors.Is(err, domain.ErrCodeDelivery):
		h.logger.WarnContext(c.Request.Context(), "code delivery failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to deliver code. Please try again."})
	default:
		h.logger.ErrorContext(c.Request.Context(), "send code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

// POST /auth/login
// Every code failure maps to the same 401 body: the error kind stays in
// the logs, never in the response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, _, err := h.auth.Login(c.Request.Context(), req.PhoneNumber, req.Code, req.TelegramID)
	switch {
	case err == nil:
		metrics.LoginsTotal.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	case errors.Is(err, domain.ErrInvalidPhone):
		metrics.LoginsTotal.WithLabelValues("invalid_input").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidPhone.Error()})
	case errors.Is(err, domain.ErrCodeNotFound),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeMismatch):
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		h.logger.InfoContext(c.Request.Context(), "login rejected", "reason", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCode})
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.LoginsTotal.WithLabelValues("no_identity").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	case errors.Is(err, domain.ErrIdentityConflict):
		metrics.LoginsTotal.WithLabelValues("conflict").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrIdentityConflict.Error()})
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	switch {
	case err == nil:
		metrics.RefreshesTotal.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	case errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenSignature),
		errors.Is(err, domain.ErrTokenExpired):
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		h.logger.InfoContext(c.Request.Context(), "refresh rejected", "reason", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.RefreshesTotal.WithLabelValues("no_identity").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	default:
		metrics.RefreshesTotal.WithLabelValues("error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "refresh", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

// GET /me — runs behind the Auth middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"id":           user.ID,
			"telegram_id":  user.TelegramID,
			"phone_number": user.PhoneNumber,
		})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	default:
		h.logger.ErrorContext(c.Request.Context(), "current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
