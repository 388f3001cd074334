package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/conn"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
)

const (
	noticeNoSpecialists    = "No specialists available. Please try again later."
	noticeConnecting       = "Connecting you to a specialist..."
	noticeAgentUnavailable = "Specialist is unavailable."
	noticeChatEnded        = "Live chat ended."
	noticeAssistRequested  = "User requested assistance"
)

// Router owns the session state machine (pending → active → closed) and
// decides bot-vs-human handling per inbound message. Delivery goes through
// the connection registry and is fire-and-forget: an unreachable party is
// surfaced as a notice to the other side when meaningful, never retried.
type Router struct {
	store      domain.SessionStore
	agents     domain.AgentDirectory
	classifier domain.Classifier
	registry   *conn.Registry
	trigger    string
	threshold  float64
}

func NewRouter(
	store domain.SessionStore,
	agents domain.AgentDirectory,
	classifier domain.Classifier,
	registry *conn.Registry,
	trigger string,
	threshold float64,
) *Router {
	return &Router{
		store:      store,
		agents:     agents,
		classifier: classifier,
		registry:   registry,
		trigger:    trigger,
		threshold:  threshold,
	}
}

func (r *Router) Registry() *conn.Registry {
	return r.registry
}

// CreateSession persists a new session in pending state. Client-supplied
// status or agent assignment is ignored; a missing session id is generated.
func (r *Router) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	if session.SessionID == "" {
		session.SessionID = uuid.New().String()
	}
	now := time.Now().UTC()
	session.Status = domain.StatusPending
	session.AgentID = ""
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := r.store.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// HandleUserFrame processes one frame read from an end user's channel.
// Failures never propagate to the caller; they surface as error frames or
// notices on the sender's own channel.
func (r *Router) HandleUserFrame(ctx context.Context, clientID, userID string, frame InboundFrame, sender conn.Channel) {
	if err := validateFrame(frame); err != nil {
		r.sendError(sender, err.Error())
		return
	}

	session, err := r.store.FindBySessionID(ctx, frame.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			r.sendError(sender, domain.ErrSessionNotFound.Error())
		} else {
			log.Error().Err(err).Str("session_id", frame.SessionID).Msg("session lookup failed")
			r.sendError(sender, "failed to load session")
		}
		return
	}
	if session.Status == domain.StatusClosed {
		r.sendError(sender, domain.ErrSessionClosed.Error())
		return
	}

	msg := *frame.Message
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if err := r.store.AppendMessage(ctx, session.SessionID, msg); err != nil {
		log.Error().Err(err).Str("session_id", session.SessionID).Msg("append message failed")
		r.sendError(sender, "failed to save message")
		return
	}

	if session.Status == domain.StatusActive {
		r.forwardToAgent(session, msg, sender)
		return
	}

	// pending: explicit trigger, otherwise classify
	if msg.Text == r.trigger {
		r.escalate(ctx, session, msg, true, sender)
		return
	}
	label, escalate := r.classifyForRouting(ctx, msg.Text)
	if escalate {
		r.escalate(ctx, session, msg, false, sender)
		return
	}
	r.send(sender, MessageFrame{Message: botMessage(fmt.Sprintf("Bot response for intent: %s", label))})
}

// HandleAgentFrame processes one frame read from an agent's channel. The
// message is persisted regardless of whether the user is reachable; an
// unreachable user is skipped, not retried.
func (r *Router) HandleAgentFrame(ctx context.Context, agentID string, frame InboundFrame, sender conn.Channel) {
	if err := validateFrame(frame); err != nil {
		r.sendError(sender, err.Error())
		return
	}

	session, err := r.store.FindBySessionID(ctx, frame.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			r.sendError(sender, domain.ErrSessionNotFound.Error())
		} else {
			log.Error().Err(err).Str("session_id", frame.SessionID).Msg("session lookup failed")
			r.sendError(sender, "failed to load session")
		}
		return
	}
	if session.Status == domain.StatusClosed {
		r.sendError(sender, domain.ErrSessionClosed.Error())
		return
	}

	msg := *frame.Message
	msg.Sender = domain.RoleAgent
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if err := r.store.AppendMessage(ctx, session.SessionID, msg); err != nil {
		log.Error().Err(err).Str("session_id", session.SessionID).Msg("append message failed")
		r.sendError(sender, "failed to save message")
		return
	}

	userCh, ok := r.registry.Lookup(conn.UserKey(session.ClientID, session.UserID))
	if !ok {
		log.Debug().
			Str("session_id", session.SessionID).
			Str("agent_id", agentID).
			Msg("user not connected, delivery skipped")
		return
	}
	r.send(userCh, MessageFrame{Message: msg})
}

// CloseSession transitions a session to closed, clears the agent assignment
// and notifies the user when reachable. Closing an unknown or already-closed
// session returns ErrSessionNotFound; closing is terminal.
func (r *Router) CloseSession(ctx context.Context, sessionID string) error {
	session, err := r.store.FindBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status == domain.StatusClosed {
		return domain.ErrSessionNotFound
	}
	if err := r.store.UpdateStatusAndAgent(ctx, sessionID, domain.StatusClosed, ""); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	if userCh, ok := r.registry.Lookup(conn.UserKey(session.ClientID, session.UserID)); ok {
		r.send(userCh, MessageFrame{Message: botMessage(noticeChatEnded)})
	}
	return nil
}

// DisconnectUser drops the user's registry entry. Session state is untouched.
func (r *Router) DisconnectUser(clientID, userID string) {
	r.registry.Unregister(conn.UserKey(clientID, userID))
}

// DisconnectAgent drops the agent's registry entry and marks the record
// offline. Sessions assigned to the agent stay active; a reconnect makes the
// agent reachable again without any session transition.
func (r *Router) DisconnectAgent(ctx context.Context, agentID string) {
	r.registry.Unregister(conn.AgentKey(agentID))
	if err := r.agents.SetAgentStatus(ctx, agentID, domain.AgentOffline, time.Now().UTC()); err != nil {
		log.Error().Err(err).Str("agent_id", agentID).Msg("failed to mark agent offline")
	}
}

// classifyForRouting returns the top intent label and whether the message
// should be escalated to a human. A classifier fault degrades to escalation
// rather than failing the message.
func (r *Router) classifyForRouting(ctx context.Context, text string) (string, bool) {
	intents, err := r.classifier.Classify(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("classifier unavailable, degrading to escalation")
		return "", true
	}
	top, ok := topIntent(intents)
	if !ok {
		return "", true
	}
	if top.Label == r.trigger || top.Confidence < r.threshold {
		return top.Label, true
	}
	return top.Label, false
}

func topIntent(intents []domain.Intent) (domain.Intent, bool) {
	if len(intents) == 0 {
		return domain.Intent{}, false
	}
	top := intents[0]
	for _, in := range intents[1:] {
		if in.Confidence > top.Confidence {
			top = in
		}
	}
	return top, true
}

// escalate picks the first online agent for the session's site and activates
// the session. When no agent is available (or the directory is down) the user
// gets a notice and the session stays pending.
func (r *Router) escalate(ctx context.Context, session *domain.ChatSession, msg domain.ChatMessage, explicit bool, sender conn.Channel) {
	agents, err := r.agents.ListOnlineAgents(ctx, session.ClientID)
	if err != nil {
		log.Error().Err(err).Str("site_id", session.ClientID).Msg("agent directory lookup failed")
		agents = nil
	}
	if len(agents) == 0 {
		r.send(sender, MessageFrame{Message: botMessage(noticeNoSpecialists)})
		return
	}
	agent := agents[0]

	if err := r.store.UpdateStatusAndAgent(ctx, session.SessionID, domain.StatusActive, agent.AgentID); err != nil {
		log.Error().Err(err).Str("session_id", session.SessionID).Msg("failed to assign agent")
		r.send(sender, MessageFrame{Message: botMessage(noticeNoSpecialists)})
		return
	}

	r.send(sender, MessageFrame{AgentAssigned: true, Message: botMessage(noticeConnecting)})

	agentCh, ok := r.registry.Lookup(conn.AgentKey(agent.AgentID))
	if !ok {
		// fire-and-forget: the assignment stands, the notification is dropped
		log.Debug().Str("agent_id", agent.AgentID).Msg("assigned agent not connected")
		return
	}
	notify := msg
	if explicit {
		notify = domain.ChatMessage{
			Sender:    domain.RoleUser,
			Text:      noticeAssistRequested,
			Timestamp: time.Now().UTC(),
		}
	}
	r.send(agentCh, MessageFrame{SessionID: session.SessionID, Message: notify})
}

// forwardToAgent delivers an active-session user message to the assigned
// agent, or tells the user the specialist is unreachable. No bot fallback in
// this state.
func (r *Router) forwardToAgent(session *domain.ChatSession, msg domain.ChatMessage, sender conn.Channel) {
	agentCh, ok := r.registry.Lookup(conn.AgentKey(session.AgentID))
	if !ok {
		r.send(sender, MessageFrame{Message: botMessage(noticeAgentUnavailable)})
		return
	}
	r.send(agentCh, MessageFrame{SessionID: session.SessionID, Message: msg})
}

func (r *Router) send(ch conn.Channel, frame MessageFrame) {
	if err := ch.Send(frame); err != nil {
		log.Debug().Err(err).Msg("frame delivery failed")
	}
}

func (r *Router) sendError(ch conn.Channel, msg string) {
	if err := ch.Send(ErrorFrame{Error: msg}); err != nil {
		log.Debug().Err(err).Msg("error frame delivery failed")
	}
}
