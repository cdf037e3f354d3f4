package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *ProductHandler, authMiddleware, activeMiddleware gin.HandlerFunc) {
	group := g.Group("/products")

	// === Authenticated Routes ===
	group.Use(authMiddleware, activeMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)       // admin or host member
		group.PATCH("/:id", h.Update)  // admin or host member
		group.DELETE("/:id", h.Delete) // admin or host member
	}
}
