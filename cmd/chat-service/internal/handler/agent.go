package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
)

type upsertAgentRequest struct {
	WebsiteID string `json:"websiteId" binding:"required"`
	AgentID   string `json:"agentId" binding:"required"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

func (h *Handler) UpsertAgent(c *gin.Context) {
	var req upsertAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	agent := &domain.HumanAgent{
		WebsiteID: req.WebsiteID,
		AgentID:   req.AgentID,
		Name:      req.Name,
		Email:     req.Email,
		Status:    domain.AgentStatus(req.Status),
	}
	if err := h.agents.UpsertAgent(c.Request.Context(), agent); err != nil {
		log.Error().Err(err).Msg("upsert agent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save agent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Human agent created"})
}

func (h *Handler) ListAgents(c *gin.Context) {
	websiteID := c.Query("websiteId")
	if websiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websiteId is required"})
		return
	}

	agents, err := h.agents.ListAgents(c.Request.Context(), websiteID, c.Query("agentId"))
	if err != nil {
		log.Error().Err(err).Msg("list agents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list agents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

type agentStatusRequest struct {
	AgentID string `json:"agentId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

func (h *Handler) UpdateAgentStatus(c *gin.Context) {
	var req agentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	status := domain.AgentStatus(req.Status)
	if status != domain.AgentOnline && status != domain.AgentOffline {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be online or offline"})
		return
	}

	err := h.agents.SetAgentStatus(c.Request.Context(), req.AgentID, status, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		log.Error().Err(err).Msg("update agent status failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Human agent status updated"})
}

func (h *Handler) AvailableAgents(c *gin.Context) {
	websiteID := c.Query("websiteId")
	if websiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websiteId is required"})
		return
	}

	agents, err := h.agents.ListOnlineAgents(c.Request.Context(), websiteID)
	if err != nil {
		log.Error().Err(err).Msg("list online agents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list agents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}
