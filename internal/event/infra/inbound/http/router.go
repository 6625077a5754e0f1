package http

import "github.com/gin-gonic/gin"

// RegisterEventRoutes registra las rutas HTTP de eventos de dominio.
func RegisterEventRoutes(r gin.IRouter, handler *EventHandler) {
	events := r.Group("/api/admin/events")
	{
		events.POST("", handler.CreateEvent)
		events.GET("", handler.ListEvents)
		events.GET("/:id", handler.GetEvent)
	}
}
