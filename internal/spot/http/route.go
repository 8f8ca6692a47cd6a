package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *SpotHandler, authMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	public := g.Group("/spots")
	{
		public.GET("", h.List)    // List spots
		public.GET("/:id", h.Get) // Get spot details
	}

	// === Authenticated Routes ===
	group := g.Group("/spots", authMiddleware)
	{
		group.GET("/current", h.ListOwn)      // Caller's spots
		group.POST("", h.Create)              // Create spot
		group.PUT("/:id", h.Update)           // Update spot
		group.DELETE("/:id", h.Delete)        // Delete spot
		group.POST("/:id/images", h.AddImage) // Attach image
	}

	g.DELETE("/spot-images/:id", authMiddleware, h.DeleteImage)
}
