package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/savelyev/emergency_watch/internal/models"
)

// @Summary Get the activity feed
// @Description Get a merged feed of recent active incidents and recent SOS alerts, newest first. Optional lat/lng narrows the feed to a radius around a point. Requires API key.
// @Tags Feed
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param lat query number false "Latitude of the feed center"
// @Param lng query number false "Longitude of the feed center"
// @Param radius query int false "Radius in meters" default(10000)
// @Success 200 {object} models.Feed
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /feed [get]
func (h *Handler) getFeed(c *gin.Context) {
	log := h.logger.WithField("method", "getFeed")

	var center *models.Location
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" || lngStr != "" {
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lng, err2 := strconv.ParseFloat(lngStr, 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return
		}
		center = &models.Location{Latitude: lat, Longitude: lng}
	}
	radius, _ := strconv.Atoi(c.DefaultQuery("radius", "0"))

	feed, err := h.feedService.BuildFeed(c.Request.Context(), center, radius)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}
