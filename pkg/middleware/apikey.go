package middleware

import (
	"net/http"
	"strings"

	"sms-dispatch-gateway/internal/models"

	"github.com/gin-gonic/gin"
)

// CredentialAuthenticator resolves a raw bearer key to a credential record
type CredentialAuthenticator interface {
	Authenticate(token string) (*models.Credential, error)
}

// APIKeyMiddleware authenticates external API callers by bearer API key.
// Missing or malformed headers are rejected before any other processing;
// the credential check itself is delegated to the authenticator so
// deactivation takes effect on the next request.
func APIKeyMiddleware(auth CredentialAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API credential"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		cred, err := auth.Authenticate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API credential"})
			c.Abort()
			return
		}

		c.Set("userID", cred.UserID)
		c.Set("credentialID", cred.ID)
		c.Next()
	}
}
