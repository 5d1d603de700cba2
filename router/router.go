package router

import (
	"net/http"

	"sms-dispatch-gateway/internal/config"
	"sms-dispatch-gateway/internal/handlers"
	"sms-dispatch-gateway/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// PermissionManageCredentials guards the API key administration endpoints
const PermissionManageCredentials = "credentials:manage"

const maxRequestBody = 1 << 20 // 1 MiB

type Router struct {
	engine *gin.Engine
}

// New wires the gateway's HTTP surface: session-authenticated portal routes
// under /api and the bearer-key external API under /api/v1.
func New(
	cfg *config.Config,
	dispatch *handlers.DispatchHandler,
	credentials *handlers.CredentialHandler,
	ledger *handlers.LedgerHandler,
	keyAuth middleware.CredentialAuthenticator,
) *Router {
	if dispatch == nil || credentials == nil || ledger == nil {
		panic("handlers cannot be nil")
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SecurityHeadersMiddleware())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.AuditLogMiddleware())
	engine.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))

	engine.GET("/health", handleHealth)
	engine.NoRoute(handleNotFound)

	// Portal routes: session identity comes from the JWT the (out-of-scope)
	// auth subsystem minted.
	protected := engine.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/sms/send", dispatch.SendWeb)
		protected.POST("/sms/bulk", dispatch.SendBulk)
		protected.GET("/sms/log", ledger.List)

		credGroup := protected.Group("/credentials")
		credGroup.Use(middleware.RequirePermission(PermissionManageCredentials))
		{
			credGroup.POST("", credentials.Create)
			credGroup.GET("", credentials.List)
			credGroup.DELETE("/:id", credentials.Deactivate)
		}
	}

	// External API: bearer API key, rate limited per credential owner.
	external := engine.Group("/api/v1")
	external.Use(middleware.APIKeyMiddleware(keyAuth))
	{
		external.POST("/messages", dispatch.SendAPI)
	}

	return &Router{engine: engine}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
