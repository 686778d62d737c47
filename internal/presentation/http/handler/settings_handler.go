package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/request"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
)

// SettingsHandler handles engine settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the effective engine settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSetting stores an override for one setting
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	var req request.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), entity.SettingKey(req.Key), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
