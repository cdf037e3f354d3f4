package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the availability views nested under products.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, activeMiddleware gin.HandlerFunc) {
	group := g.Group("/products")

	group.Use(authMiddleware, activeMiddleware)
	{
		group.GET("/:id/availability", h.PlacesLeft)
		group.GET("/:id/calendar", h.Calendar)
		group.GET("/:id/booking-counts", h.BookingCounts)
	}
}
