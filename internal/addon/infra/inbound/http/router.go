package http

import "github.com/gin-gonic/gin"

// RegisterAddonRoutes registra las rutas HTTP de integraciones.
func RegisterAddonRoutes(r gin.IRouter, handler *AddonHandler) {
	addons := r.Group("/api/admin/addons")
	{
		addons.GET("", handler.ListAddons)
		addons.POST("", handler.CreateAddon)
		addons.GET("/providers", handler.ListProviders)
		addons.GET("/:id", handler.GetAddon)
		addons.PUT("/:id", handler.UpdateAddon)
		addons.DELETE("/:id", handler.DeleteAddon)
		addons.GET("/:id/events", handler.ListIntegrationEvents)
	}
}
