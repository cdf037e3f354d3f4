package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers region-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *RegionHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	regionGroup := g.Group("/regions")

	// === Authenticated Routes ===
	regionGroup.Use(authMiddleware)
	{
		regionGroup.GET("", h.List)
		regionGroup.GET("/:id", h.Get)
	}

	// === Administration Routes ===
	adminGroup := regionGroup.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.POST("", h.Create)
		adminGroup.PATCH("/:id", h.Update)
		adminGroup.DELETE("/:id", h.Delete)
	}
}
