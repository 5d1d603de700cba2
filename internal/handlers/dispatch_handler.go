package handlers

import (
	"errors"
	"net/http"

	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/internal/provider"
	"sms-dispatch-gateway/internal/services"
	"sms-dispatch-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DispatchHandler handles send requests on both the session-authenticated
// portal paths and the bearer-key external API path
type DispatchHandler struct {
	dispatch DispatchServiceInterface
	limiter  RateLimiterInterface
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(dispatch DispatchServiceInterface, limiter RateLimiterInterface) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch, limiter: limiter}
}

// SendWeb handles POST /api/sms/send (session-authenticated). Accepts an
// optional team key and an optional schedule timestamp.
func (h *DispatchHandler) SendWeb(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid send request", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.dispatch.Send(c.Request.Context(), req, userID, models.SourceWeb)
	if err != nil {
		respondDispatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": result.Status})
}

// SendAPI handles POST /api/v1/messages (bearer-key authenticated). The
// credential middleware has already resolved the caller; the rate limit is
// checked here, before anything touches the provider or the ledger.
func (h *DispatchHandler) SendAPI(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.limiter.Allow(userID); err != nil {
		respondDispatchError(c, err)
		return
	}

	var req models.APISendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.dispatch.Send(c.Request.Context(), models.SendRequest{
		Message:     req.Message,
		Destination: req.Destination,
	}, userID, models.SourceAPI)
	if err != nil {
		respondDispatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": result.Status})
}

// SendBulk handles POST /api/sms/bulk (session-authenticated). The batch
// never aborts: the caller always receives a full per-row accounting, and
// partial success is an outcome, not an error.
func (h *DispatchHandler) SendBulk(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one row is required"})
		return
	}

	result, err := h.dispatch.SendBulk(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Bulk dispatch error", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk dispatch failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondDispatchError maps the dispatch error taxonomy to HTTP statuses:
// auth 401, rate limit 429, validation 400, configuration 500, provider 502.
func respondDispatchError(c *gin.Context, err error) {
	var rateErr *services.RateLimitError
	var configErr *services.ConfigError
	var providerErr *provider.Error

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &rateErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateErr.Error(), "limit": rateErr.Limit})
	case services.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &configErr), errors.Is(err, provider.ErrNotConfigured):
		logger.Error("Dispatch configuration error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "status": models.StatusFailed, "error": providerErr.Error()})
	default:
		logger.Error("Dispatch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dispatch failed"})
	}
}
