package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
)

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	session := &domain.ChatSession{
		SessionID: req.SessionID,
		ClientID:  req.ClientID,
		UserID:    req.UserID,
	}
	if err := h.router.CreateSession(c.Request.Context(), session); err != nil {
		log.Error().Err(err).Msg("create session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.SessionID})
}

func (h *Handler) ListSessions(c *gin.Context) {
	agentID := c.Query("agentId")
	clientID := c.Query("clientId")

	sessions, err := h.sessions.ListSessions(c.Request.Context(), agentID, clientID)
	if err != nil {
		log.Error().Err(err).Msg("list sessions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type closeSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *Handler) CloseSession(c *gin.Context) {
	var req closeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := h.router.CloseSession(c.Request.Context(), req.SessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("close session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}
