package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers file routes. Downloads are public so stored
// images can be embedded directly.
func RegisterRoutes(r gin.IRouter, handler *Handler, authMiddleware gin.HandlerFunc) {
	group := r.Group("/files")

	group.POST("", authMiddleware, handler.Upload)
	group.GET("/:id", handler.ServeFile)
	group.GET("/:id/thumbnail", handler.ServeThumbnail)
	group.DELETE("/:id", authMiddleware, handler.Delete)
}
