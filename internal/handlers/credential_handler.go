package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/internal/services"
	"sms-dispatch-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CredentialHandler handles API key administration
type CredentialHandler struct {
	credentials CredentialServiceInterface
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(credentials CredentialServiceInterface) *CredentialHandler {
	return &CredentialHandler{credentials: credentials}
}

// Create handles POST /api/credentials. The raw key appears in this
// response and nowhere else, ever again.
func (h *CredentialHandler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cred, raw, err := h.credentials.IssueCredential(userID, req.Label)
	if err != nil {
		logger.Error("Failed to issue credential", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue credential"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"credential": cred.ToResponse(),
		"key":        raw,
	})
}

// List handles GET /api/credentials
func (h *CredentialHandler) List(c *gin.Context) {
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

	creds, err := h.credentials.List(limit, offset)
	if err != nil {
		logger.Error("Failed to list credentials", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credentials"})
		return
	}

	responses := make([]*models.CredentialResponse, 0, len(creds))
	for _, cred := range creds {
		responses = append(responses, cred.ToResponse())
	}

	c.JSON(http.StatusOK, responses)
}

// Deactivate handles DELETE /api/credentials/:id. Credentials are soft
// deleted; their ledger history stays intact.
func (h *CredentialHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credential ID is required"})
		return
	}

	if err := h.credentials.Deactivate(id); err != nil {
		if errors.Is(err, services.ErrCredentialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
			return
		}
		logger.Error("Failed to deactivate credential", zap.String("credential_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate credential"})
		return
	}

	c.Status(http.StatusNoContent)
}
