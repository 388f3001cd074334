package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/middleware"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/router"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/security"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/store"
)

type Handler struct {
	router     *router.Router
	sessions   domain.SessionStore
	agents     *store.AgentRepository
	widgets    *store.WidgetRepository
	bots       *store.BotRepository
	classifier domain.Classifier
	jwt        *security.JWTService
	apiKey     string
}

func NewHandler(
	r *router.Router,
	sessions domain.SessionStore,
	agents *store.AgentRepository,
	widgets *store.WidgetRepository,
	bots *store.BotRepository,
	classifier domain.Classifier,
	jwt *security.JWTService,
	apiKey string,
) *Handler {
	return &Handler{
		router:     r,
		sessions:   sessions,
		agents:     agents,
		widgets:    widgets,
		bots:       bots,
		classifier: classifier,
		jwt:        jwt,
		apiKey:     apiKey,
	}
}

// RegisterRoutes wires the public widget surface, the authenticated
// dashboard surface and the two websocket endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := middleware.JwtAuth(h.jwt)

	r.POST("/auth/token", h.IssueToken)

	// public: consumed by the embedded widget
	r.POST("/chat/session", h.CreateSession)
	r.GET("/widget/:clientId", h.GetWidgetSettings)
	r.GET("/human-agents/available", h.AvailableAgents)
	r.GET("/agents", h.ListBotAgents)
	r.GET("/chains", h.ListChains)
	r.GET("/human-agents", h.ListAgents)
	r.POST("/classify-intent", h.ClassifyIntent)

	// dashboard: operator mutations
	r.GET("/chat/session", auth, h.ListSessions)
	r.POST("/chat/session/close", auth, h.CloseSession)
	r.POST("/human-agents", auth, h.UpsertAgent)
	r.POST("/human-agents/status", auth, h.UpdateAgentStatus)
	r.POST("/widget/:clientId", auth, h.UpdateWidgetSettings)
	r.POST("/agents", auth, h.UpsertBotAgent)
	r.POST("/chains", auth, h.UpsertChain)

	// duplex channels
	r.GET("/ws/chat/:clientId/:userId", h.UserWS)
	r.GET("/ws/agent/:agentId", h.AgentWS)
}
