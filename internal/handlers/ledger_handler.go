package handlers

import (
	"net/http"
	"strconv"

	"sms-dispatch-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LedgerHandler exposes a caller's own audit trail
type LedgerHandler struct {
	ledger LedgerReaderInterface
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledger LedgerReaderInterface) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// List handles GET /api/sms/log with pagination
func (h *LedgerHandler) List(c *gin.Context) {
	userID := c.GetString("userID")

	limit := 100
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit value"})
			return
		}
		limit = l
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		o, err := strconv.Atoi(offsetStr)
		if err != nil || o < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset value"})
			return
		}
		offset = o
	}

	entries, err := h.ledger.ListByUser(userID, limit, offset)
	if err != nil {
		logger.Error("Failed to read dispatch log", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read dispatch log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
