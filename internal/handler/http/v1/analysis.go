package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savelyev/emergency_watch/internal/models"
)

// @Summary Analyze incident history of an area
// @Description Analyze historical incidents around a point: totals, patterns by type, severity, day of week and time of day, a coarse risk level and prediction hints. Requires API key.
// @Tags Analysis
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param area body AnalyzeAreaRequest true "Area of interest"
// @Success 200 {object} models.AreaAnalysis
// @Failure 400 {object} map[string]string "Invalid request body or geometry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analysis/area [post]
func (h *Handler) analyzeArea(c *gin.Context) {
	log := h.logger.WithField("method", "analyzeArea")

	var input AnalyzeAreaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	center := models.Location{Latitude: input.Latitude, Longitude: input.Longitude}
	analysis, err := h.analysisService.AnalyzeArea(c.Request.Context(), center, input.RadiusMeters, input.WindowDays)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// @Summary Build an incident heatmap
// @Description Build a density heatmap of historical incidents within a bounding box on a fixed-size grid. Requires API key.
// @Tags Analysis
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param box body HeatmapRequest true "Bounding box"
// @Success 200 {object} models.Heatmap
// @Failure 400 {object} map[string]string "Invalid request body or geometry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analysis/heatmap [post]
func (h *Handler) buildHeatmap(c *gin.Context) {
	log := h.logger.WithField("method", "buildHeatmap")

	var input HeatmapRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	box := models.BoundingBox{
		SouthWest: models.Location{Latitude: input.SouthWestLatitude, Longitude: input.SouthWestLongitude},
		NorthEast: models.Location{Latitude: input.NorthEastLatitude, Longitude: input.NorthEastLongitude},
	}
	heatmap, err := h.analysisService.BuildHeatmap(c.Request.Context(), box, input.WindowDays)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}
