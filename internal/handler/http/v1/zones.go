package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/savelyev/emergency_watch/internal/models"
)

// @Summary Create a watch zone
// @Description Create a watch zone around a point of interest. Requires API key and user identity.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param zone body CreateZoneRequest true "Watch zone"
// @Success 201 {object} ZoneResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones [post]
func (h *Handler) createZone(c *gin.Context) {
	log := h.logger.WithField("method", "createZone")

	owner, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	var input CreateZoneRequest
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

	zone := &models.WatchZone{
		OwnerID: owner,
		Name:    input.Name,
		Center: models.Location{
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
			Address:   input.Address,
		},
		RadiusMeters: input.RadiusMeters,
	}
	if err := h.geofenceService.CreateZone(c.Request.Context(), zone); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToZoneResponse(zone))
}

// @Summary List watch zones
// @Description List watch zones owned by the requesting user. Requires API key and user identity.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} ZoneResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones [get]
func (h *Handler) listZones(c *gin.Context) {
	log := h.logger.WithField("method", "listZones")

	owner, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	zones, err := h.geofenceService.ListZones(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToZoneResponses(zones))
}

// @Summary Update a watch zone
// @Description Update parameters of a watch zone, including its active flag. Requires API key and user identity.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Zone ID"
// @Param zone body UpdateZoneRequest true "Watch zone"
// @Success 200 {object} ZoneResponse
// @Failure 400 {object} map[string]string "Invalid zone ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Zone not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones/{id} [put]
func (h *Handler) updateZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone ID"})
		return
	}
	log := h.logger.WithField("method", "updateZone").WithField("id", id)

	owner, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	var input UpdateZoneRequest
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

	zone := &models.WatchZone{
		ID:      id,
		OwnerID: owner,
		Name:    input.Name,
		Center: models.Location{
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
			Address:   input.Address,
		},
		RadiusMeters: input.RadiusMeters,
		IsActive:     *input.IsActive,
	}
	if err := h.geofenceService.UpdateZone(c.Request.Context(), zone); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToZoneResponse(zone))
}

// @Summary Delete a watch zone
// @Description Delete a watch zone owned by the requesting user. Requires API key and user identity.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Zone ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid zone ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Zone not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones/{id} [delete]
func (h *Handler) deleteZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone ID"})
		return
	}
	log := h.logger.WithField("method", "deleteZone").WithField("id", id)

	owner, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	if err := h.geofenceService.DeleteZone(c.Request.Context(), id, owner); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Check a watch zone for hazards
// @Description Check a watch zone for active hazardous incidents within its radius. An inactive zone is never checked and never alerts. Requires API key and user identity.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Zone ID"
// @Success 200 {object} ZoneCheckResponse
// @Failure 400 {object} map[string]string "Invalid zone ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Zone not found"
// @Failure 502 {object} map[string]string "Incident lookup unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones/{id}/check [get]
func (h *Handler) checkZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone ID"})
		return
	}
	log := h.logger.WithField("method", "checkZone").WithField("id", id)

	owner, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	result, err := h.geofenceService.CheckZone(c.Request.Context(), id, owner)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, &ZoneCheckResponse{
		Incidents: ModelsToIncidentResponses(result.Incidents),
		Alerted:   result.Alerted,
	})
}
