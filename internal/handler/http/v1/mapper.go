package v1

import "github.com/savelyev/emergency_watch/internal/models"

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:          model.ID,
		ReporterID:  model.ReporterID,
		Type:        model.Type,
		Severity:    model.Severity,
		Latitude:    model.Location.Latitude,
		Longitude:   model.Location.Longitude,
		Address:     model.Location.Address,
		Description: model.Description,
		Confidence:  model.Confidence,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		ResolvedAt:  model.ResolvedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, model := range incidents {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToZoneResponse преобразует доменную модель зоны в DTO для ответа
func ModelToZoneResponse(model *models.WatchZone) *ZoneResponse {
	return &ZoneResponse{
		ID:            model.ID,
		OwnerID:       model.OwnerID,
		Name:          model.Name,
		Latitude:      model.Center.Latitude,
		Longitude:     model.Center.Longitude,
		Address:       model.Center.Address,
		RadiusMeters:  model.RadiusMeters,
		IsActive:      model.IsActive,
		LastAlertedAt: model.LastAlertedAt,
		CreatedAt:     model.CreatedAt,
	}
}

// ModelsToZoneResponses преобразует слайс моделей зон в слайс DTO
func ModelsToZoneResponses(zones []*models.WatchZone) []*ZoneResponse {
	responses := make([]*ZoneResponse, len(zones))
	for i, model := range zones {
		responses[i] = ModelToZoneResponse(model)
	}
	return responses
}
