package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers host-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *HostHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/hosts")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)            // admin or host member
		group.GET("/:id/members", h.ListMembers) // admin or host member
	}

	// === Administration Routes ===
	adminGroup := group.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.POST("", h.Create)
		adminGroup.DELETE("/:id", h.Delete)
		adminGroup.POST("/:id/members", h.AddMember)
		adminGroup.DELETE("/:id/members/:user_id", h.RemoveMember)
	}
}
