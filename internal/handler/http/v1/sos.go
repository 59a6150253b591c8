package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savelyev/emergency_watch/internal/models"
)

// @Summary Trigger an SOS alert
// @Description Trigger an SOS alert: notify favourite contacts, count nearby responders and create a companion high-severity incident. If the companion incident fails, the alert itself survives and the response reports the partial result. Requires API key and user identity.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sos body SOSRequest true "SOS location"
// @Success 201 {object} SOSResponse
// @Failure 400 {object} map[string]string "Invalid request body or coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal server error or partial failure"
// @Router /sos [post]
func (h *Handler) triggerSOS(c *gin.Context) {
	log := h.logger.WithField("method", "triggerSOS")

	sender, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	var input SOSRequest
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

	loc := models.Location{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Address:   input.Address,
	}
	alert, incident, err := h.sosService.TriggerSOS(c.Request.Context(), sender, loc)
	if err != nil {
		// Частичный отказ: сигнал уже создан и контакты оповещены,
		// клиент должен узнать об обоих фактах.
		var partial *models.PartialError
		if errors.As(err, &partial) && alert != nil {
			log.WithError(err).Error("SOS companion incident failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":            "partial failure",
				"signal_created":   partial.SignalCreated,
				"incident_created": partial.IncidentCreated,
				"alert":            alert,
			})
			return
		}
		h.respondError(c, log, err)
		return
	}

	resp := &SOSResponse{
		Alert:            alert,
		ContactsNotified: len(alert.ContactsNotified),
	}
	if incident != nil {
		resp.Incident = ModelToIncidentResponse(incident)
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List my SOS alerts
// @Description List SOS alerts previously triggered by the requesting user, newest first. Requires API key and user identity.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.SOSAlert
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/my-alerts [get]
func (h *Handler) mySOSAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "mySOSAlerts")

	sender, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	alerts, err := h.sosService.MySOSAlerts(c.Request.Context(), sender)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
