package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	g.GET("/spots/:id/reviews", h.ListForSpot)

	// === Authenticated Routes ===
	g.POST("/spots/:id/reviews", authMiddleware, h.Create)

	group := g.Group("/reviews", authMiddleware)
	{
		group.GET("/current", h.ListOwn)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/images", h.AddImage)
	}

	g.DELETE("/review-images/:id", authMiddleware, h.DeleteImage)
}
