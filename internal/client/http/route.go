package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers client routes. staffMiddleware limits access to case handling roles;
// deleting a client additionally requires caseworkerMiddleware.
func RegisterRoutes(g *gin.RouterGroup, h *ClientHandler, authMiddleware, staffMiddleware, caseworkerMiddleware gin.HandlerFunc) {
	group := g.Group("/clients")
	group.Use(authMiddleware)
	{
		group.GET("", staffMiddleware, h.List)
		group.GET("/:id", staffMiddleware, h.Get)
		group.POST("", staffMiddleware, h.Create)
		group.PATCH("/:id", staffMiddleware, h.Update)
		group.DELETE("/:id", caseworkerMiddleware, h.Delete)
	}
}
