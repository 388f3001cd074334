package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/classifier"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
)

type classifyIntentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ClassifyIntent exposes the classifier to the widget's product-search flow:
// intents above 0.5 plus derived query parameters.
func (h *Handler) ClassifyIntent(c *gin.Context) {
	var req classifyIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	intents, err := h.classifier.Classify(c.Request.Context(), req.Text)
	if err != nil {
		log.Error().Err(err).Msg("classify failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classifier unavailable"})
		return
	}

	filtered := make([]domain.Intent, 0, len(intents))
	for _, in := range intents {
		if in.Confidence > 0.5 {
			filtered = append(filtered, in)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"intents": filtered,
		"params":  classifier.ExtractParams(req.Text),
	})
}
