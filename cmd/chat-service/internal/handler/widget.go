package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
)

func (h *Handler) GetWidgetSettings(c *gin.Context) {
	clientID := c.Param("clientId")

	settings, err := h.widgets.GetOrCreate(c.Request.Context(), clientID)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("get widget settings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clientId":       clientID,
		"widgetSettings": settings,
	})
}

func (h *Handler) UpdateWidgetSettings(c *gin.Context) {
	clientID := c.Param("clientId")

	var settings domain.WidgetSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	// reject payloads the widget cannot render safely
	for _, q := range settings.ReadyQuestions {
		if q.Label == "" || q.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ready questions format"})
			return
		}
	}
	if !strings.HasPrefix(settings.LogoURL, "http://") &&
		!strings.HasPrefix(settings.LogoURL, "https://") &&
		!strings.HasPrefix(settings.LogoURL, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid logo URL"})
		return
	}

	if err := h.widgets.Update(c.Request.Context(), clientID, &settings); err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("update widget settings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save widget settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Widget settings updated"})
}
