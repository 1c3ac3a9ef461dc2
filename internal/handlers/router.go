package handlers

import (
	"github.com/ghiemer/qr-redirector/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("qr_session", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public Routes
	r.POST("/api/login", h.LoginUser)
	r.POST("/api/logout", h.LogoutUser)

	// Protected Admin API
	authorized := r.Group("/api/v1")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/routes", h.ListRoutes)
		authorized.POST("/routes", h.CreateRoute)
		authorized.PUT("/routes/:id", h.UpdateRoute)
		authorized.DELETE("/routes/:id", h.DeleteRoute)
		authorized.GET("/routes/:id/qr", h.ShowRouteQR)
		authorized.GET("/stats/:alias", h.ShowRouteStats)
		authorized.DELETE("/counters", h.ResetAllCounters)
		authorized.DELETE("/counters/:alias", h.ResetCounter)
		authorized.POST("/logs/cleanup", h.CleanupLogs)
	}

	// Catch-all Redirects
	r.GET("/:alias", h.RedirectToTarget)

	return r
}
