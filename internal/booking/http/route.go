package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)

	// === End-User Routes ===
	group.POST("/user", h.CreateUser)
	group.GET("/user/list", h.ListMine)
	group.PATCH("/user/:id/cancel", h.Cancel)
	group.GET("/:id", h.Get)

	// === Admin Routes ===
	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.POST("", h.CreateAdmin)
		admin.GET("", h.List)
		admin.GET("/export", h.Export)
		admin.PATCH("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.Delete)
	}
}
