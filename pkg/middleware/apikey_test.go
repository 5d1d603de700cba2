package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator struct {
	authenticateFunc func(token string) (*models.Credential, error)
}

func (s *stubAuthenticator) Authenticate(token string) (*models.Credential, error) {
	return s.authenticateFunc(token)
}

func TestAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := &stubAuthenticator{
		authenticateFunc: func(token string) (*models.Credential, error) {
			if token == "smsd_validkey" {
				return &models.Credential{ID: "cred-123", UserID: "user-123", Active: true}, nil
			}
			return nil, services.ErrUnauthenticated
		},
	}

	router := gin.New()
	router.Use(APIKeyMiddleware(auth))
	router.POST("/messages", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":       c.GetString("userID"),
			"credentialID": c.GetString("credentialID"),
		})
	})

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header is required",
		},
		{
			name:           "not a bearer scheme",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid API credential",
		},
		{
			name:           "unknown key",
			header:         "Bearer smsd_unknownkey",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid API credential",
		},
		{
			name:           "valid key",
			header:         "Bearer smsd_validkey",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest("POST", "/messages", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedError != "" {
				assert.Contains(t, w.Body.String(), tc.expectedError)
			} else {
				assert.Contains(t, w.Body.String(), "user-123")
				assert.Contains(t, w.Body.String(), "cred-123")
			}
		})
	}
}

func TestAPIKeyMiddlewareDeactivatedKeyStopsWorking(t *testing.T) {
	gin.SetMode(gin.TestMode)

	active := true
	auth := &stubAuthenticator{
		authenticateFunc: func(token string) (*models.Credential, error) {
			if !active {
				return nil, services.ErrUnauthenticated
			}
			return &models.Credential{ID: "cred-123", UserID: "user-123", Active: true}, nil
		},
	}

	router := gin.New()
	router.Use(APIKeyMiddleware(auth))
	router.POST("/messages", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		req, _ := http.NewRequest("POST", "/messages", nil)
		req.Header.Set("Authorization", "Bearer smsd_somekey")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())

	// Deactivation takes effect on the very next request
	active = false
	assert.Equal(t, http.StatusUnauthorized, send())
}
