package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleBot   Role = "bot"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleBot:
		return true
	}
	return false
}

type SessionStatus string

const (
	StatusPending SessionStatus = "pending"
	StatusActive  SessionStatus = "active"
	StatusClosed  SessionStatus = "closed"
)

// ChatMessage is immutable once appended; ordering within a session is
// append order.
type ChatMessage struct {
	Sender    Role      `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession 会话实体 (Aggregate Root)
//
// Invariant: Status==active iff AgentID is set. A closed session keeps its
// record but accepts no further messages through the router.
type ChatSession struct {
	SessionID string        `json:"sessionId"`
	ClientID  string        `json:"clientId"`
	UserID    string        `json:"userId"`
	AgentID   string        `json:"agentId,omitempty"`
	Status    SessionStatus `json:"status"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (s *ChatSession) Assigned() bool {
	return s.AgentID != ""
}

type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentOffline AgentStatus = "offline"
)

// HumanAgent is a live-support operator scoped to one website.
type HumanAgent struct {
	WebsiteID  string      `json:"websiteId"`
	AgentID    string      `json:"agentId"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Status     AgentStatus `json:"status"`
	LastActive *time.Time  `json:"lastActive,omitempty"`
}

// Intent is a single classifier signal.
type Intent struct {
	Label      string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}
