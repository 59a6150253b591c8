package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты для управления инцидентами
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/nearby", h.nearbyIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/vote", h.voteIncident)
		incidents.POST("/:id/info", h.addIncidentInfo)
		incidents.PATCH("/:id/close", h.closeIncident)
	}

	// Маршруты сигналов бедствия
	sos := api.Group("/sos")
	{
		sos.POST("", h.triggerSOS)
		sos.GET("/my-alerts", h.mySOSAlerts)
	}

	// Маршруты зон наблюдения
	zones := api.Group("/zones")
	{
		zones.POST("", h.createZone)
		zones.GET("", h.listZones)
		zones.PUT("/:id", h.updateZone)
		zones.DELETE("/:id", h.deleteZone)
		zones.GET("/:id/check", h.checkZone)
	}

	// Лента активности
	api.GET("/feed", h.getFeed)

	// Исторический анализ
	analysis := api.Group("/analysis")
	{
		analysis.POST("/area", h.analyzeArea)
		analysis.POST("/heatmap", h.buildHeatmap)
	}

	// Маршрут для проверки местоположения
	api.POST("/location/check", h.checkLocation)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
