package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Spot-scoped Routes ===
	spots := g.Group("/spots/:id/bookings", authMiddleware)
	{
		spots.GET("", h.ListForSpot)
		spots.POST("", h.Create)
	}

	// === Authenticated Routes ===
	group := g.Group("/bookings", authMiddleware)
	{
		group.GET("/current", h.ListOwn)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
