package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/conn"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/router"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.ChatSession
}

func (s *memStore) CreateSession(_ context.Context, session *domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.SessionID] = &cp
	return nil
}

func (s *memStore) FindBySessionID(_ context.Context, id string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *memStore) AppendMessage(_ context.Context, id string, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Messages = append(session.Messages, msg)
	return nil
}

func (s *memStore) UpdateStatusAndAgent(_ context.Context, id string, status domain.SessionStatus, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Status = status
	session.AgentID = agentID
	return nil
}

func (s *memStore) ListSessions(_ context.Context, _, _ string) ([]*domain.ChatSession, error) {
	return nil, nil
}

type stubDirectory struct {
	agents []*domain.HumanAgent
}

func (d *stubDirectory) ListOnlineAgents(_ context.Context, _ string) ([]*domain.HumanAgent, error) {
	return d.agents, nil
}

func (d *stubDirectory) SetAgentStatus(_ context.Context, _ string, _ domain.AgentStatus, _ time.Time) error {
	return nil
}

type stubClassifier struct {
	intents []domain.Intent
}

func (c *stubClassifier) Classify(_ context.Context, _ string) ([]domain.Intent, error) {
	return c.intents, nil
}

func newWSTestServer(t *testing.T, store *memStore, directory *stubDirectory, classifier *stubClassifier) (*httptest.Server, *router.Router) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := conn.NewRegistry()
	sessionRouter := router.NewRouter(store, directory, classifier, registry, "human_assistance", 0.7)
	h := NewHandler(sessionRouter, store, nil, nil, nil, classifier, nil, "")

	r := gin.New()
	r.GET("/ws/chat/:clientId/:userId", h.UserWS)
	r.GET("/ws/agent/:agentId", h.AgentWS)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessionRouter
}

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	return ws
}

func seedPending(store *memStore, id string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[id] = &domain.ChatSession{
		SessionID: id,
		ClientID:  "acme",
		UserID:    "u1",
		Status:    domain.StatusPending,
	}
}

func TestUserWSBotRoundTrip(t *testing.T) {
	store := &memStore{sessions: make(map[string]*domain.ChatSession)}
	seedPending(store, "s1")
	classifier := &stubClassifier{intents: []domain.Intent{{Label: "search_product", Confidence: 0.9}}}
	srv, _ := newWSTestServer(t, store, &stubDirectory{}, classifier)

	ws := dialWS(t, srv, "/ws/chat/acme/u1")

	require.NoError(t, ws.WriteJSON(map[string]any{
		"sessionId": "s1",
		"message":   map[string]any{"sender": "user", "text": "cheapest headphones"},
	}))

	var reply struct {
		Message domain.ChatMessage `json:"message"`
	}
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, domain.RoleBot, reply.Message.Sender)
	assert.Equal(t, "Bot response for intent: search_product", reply.Message.Text)
}

func TestUserWSMalformedJSONGetsErrorFrame(t *testing.T) {
	store := &memStore{sessions: make(map[string]*domain.ChatSession)}
	srv, _ := newWSTestServer(t, store, &stubDirectory{}, &stubClassifier{})

	ws := dialWS(t, srv, "/ws/chat/acme/u1")

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var reply struct {
		Error string `json:"error"`
	}
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Contains(t, reply.Error, "invalid message format")

	// the connection survives the bad frame
	seedPending(store, "s1")
	require.NoError(t, ws.WriteJSON(map[string]any{
		"sessionId": "s1",
		"message":   map[string]any{"sender": "user", "text": "human_assistance"},
	}))
	var notice struct {
		Message domain.ChatMessage `json:"message"`
	}
	require.NoError(t, ws.ReadJSON(&notice))
	assert.Equal(t, "No specialists available. Please try again later.", notice.Message.Text)
}

func TestEscalationReachesConnectedAgent(t *testing.T) {
	store := &memStore{sessions: make(map[string]*domain.ChatSession)}
	seedPending(store, "s1")
	directory := &stubDirectory{agents: []*domain.HumanAgent{
		{WebsiteID: "acme", AgentID: "a1", Status: domain.AgentOnline},
	}}
	srv, sessionRouter := newWSTestServer(t, store, directory, &stubClassifier{})

	agentWS := dialWS(t, srv, "/ws/agent/a1")
	userWS := dialWS(t, srv, "/ws/chat/acme/u1")

	require.Eventually(t, func() bool {
		_, ok := sessionRouter.Registry().Lookup(conn.AgentKey("a1"))
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, userWS.WriteJSON(map[string]any{
		"sessionId": "s1",
		"message":   map[string]any{"sender": "user", "text": "human_assistance"},
	}))

	var userFrame struct {
		AgentAssigned bool               `json:"agentAssigned"`
		Message       domain.ChatMessage `json:"message"`
	}
	require.NoError(t, userWS.ReadJSON(&userFrame))
	assert.True(t, userFrame.AgentAssigned)
	assert.Equal(t, "Connecting you to a specialist...", userFrame.Message.Text)

	var agentFrame struct {
		SessionID string             `json:"sessionId"`
		Message   domain.ChatMessage `json:"message"`
	}
	require.NoError(t, agentWS.ReadJSON(&agentFrame))
	assert.Equal(t, "s1", agentFrame.SessionID)
	assert.Equal(t, "User requested assistance", agentFrame.Message.Text)

	// agent replies, user receives it
	require.NoError(t, agentWS.WriteJSON(map[string]any{
		"sessionId": "s1",
		"message":   map[string]any{"sender": "agent", "text": "hello, how can I help?"},
	}))
	var relayed struct {
		Message domain.ChatMessage `json:"message"`
	}
	require.NoError(t, userWS.ReadJSON(&relayed))
	assert.Equal(t, domain.RoleAgent, relayed.Message.Sender)
	assert.Equal(t, "hello, how can I help?", relayed.Message.Text)
}

func TestUserDisconnectClearsRegistration(t *testing.T) {
	store := &memStore{sessions: make(map[string]*domain.ChatSession)}
	srv, sessionRouter := newWSTestServer(t, store, &stubDirectory{}, &stubClassifier{})

	ws := dialWS(t, srv, "/ws/chat/acme/u1")

	require.Eventually(t, func() bool {
		_, ok := sessionRouter.Registry().Lookup(conn.UserKey("acme", "u1"))
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws.Close())

	require.Eventually(t, func() bool {
		_, ok := sessionRouter.Registry().Lookup(conn.UserKey("acme", "u1"))
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}
