package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Automated responder configs and chain definitions are free-form documents;
// only the routing keys are validated here.

func (h *Handler) UpsertBotAgent(c *gin.Context) {
	var doc map[string]json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	websiteID := stringField(doc, "websiteId")
	intent := stringField(doc, "intent")
	if websiteID == "" || intent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websiteId and intent are required"})
		return
	}

	raw, _ := json.Marshal(doc)
	if err := h.bots.UpsertBotAgent(c.Request.Context(), websiteID, intent, raw); err != nil {
		log.Error().Err(err).Msg("upsert bot agent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save agent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Agent created"})
}

func (h *Handler) ListBotAgents(c *gin.Context) {
	websiteID := c.Query("websiteId")
	if websiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websiteId is required"})
		return
	}

	agents, err := h.bots.ListBotAgents(c.Request.Context(), websiteID, c.Query("intent"))
	if err != nil {
		log.Error().Err(err).Msg("list bot agents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list agents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (h *Handler) UpsertChain(c *gin.Context) {
	var doc map[string]json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	websiteID := stringField(doc, "websiteId")
	chainID := stringField(doc, "chainId")
	if websiteID == "" || chainID == "" || doc["agentSequence"] == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	raw, _ := json.Marshal(doc)
	if err := h.bots.UpsertChain(c.Request.Context(), websiteID, chainID, raw); err != nil {
		log.Error().Err(err).Msg("upsert chain failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save chain"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Chain created"})
}

func (h *Handler) ListChains(c *gin.Context) {
	websiteID := c.Query("websiteId")
	if websiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websiteId is required"})
		return
	}

	chains, err := h.bots.ListChains(c.Request.Context(), websiteID)
	if err != nil {
		log.Error().Err(err).Msg("list chains failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chains"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}

func stringField(doc map[string]json.RawMessage, key string) string {
	raw, ok := doc[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
