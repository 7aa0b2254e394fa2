package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

// SettingsAccess loads and saves the user settings.
type SettingsAccess interface {
	Load() models.Settings
	Save(models.Settings) error
}

// SettingsHandler exposes the persisted user settings.
type SettingsHandler struct {
	settings SettingsAccess
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings SettingsAccess) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings returns the current settings, falling back to defaults when
// nothing was saved yet.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	respondOK(c, h.settings.Load())
}

// UpdateSettings replaces the stored settings wholesale.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   utils.UserMessage(utils.NewValidationError("request body must be a settings object")),
		})
		return
	}

	if err := h.settings.Save(settings); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, settings)
}
