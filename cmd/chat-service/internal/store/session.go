package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
	"github.com/Kozeke/marketplace-chatwidget/infra/database"
)

type SessionModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"uniqueIndex;size:64;not null"`
	ClientID  string    `gorm:"index;size:64;not null"`
	UserID    string    `gorm:"index;size:64;not null"`
	AgentID   string    `gorm:"index;size:64"`
	Status    string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SessionModel) TableName() string {
	return "chat_sessions"
}

// MessageModel rows are append-only; the auto-increment primary key is the
// ordering guarantee within a session.
type MessageModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"index;size:64;not null"`
	Sender    string    `gorm:"size:16;not null"`
	Text      string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null"`
}

func (MessageModel) TableName() string {
	return "chat_messages"
}

type SessionRepository struct {
	db *database.Postgres
}

func NewSessionRepository(db *database.Postgres) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	model := &SessionModel{
		SessionID: session.SessionID,
		ClientID:  session.ClientID,
		UserID:    session.UserID,
		AgentID:   session.AgentID,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	for _, msg := range session.Messages {
		if err := r.appendMessage(ctx, session.SessionID, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *SessionRepository) FindBySessionID(ctx context.Context, id string) (*domain.ChatSession, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	messages, err := r.sessionMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionEntity(&model, messages), nil
}

func (r *SessionRepository) AppendMessage(ctx context.Context, id string, msg domain.ChatMessage) error {
	if err := r.appendMessage(ctx, id, msg); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(&SessionModel{}).
		Where("session_id = ?", id).
		Update("updated_at", time.Now().UTC()).Error; err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (r *SessionRepository) appendMessage(ctx context.Context, id string, msg domain.ChatMessage) error {
	model := &MessageModel{
		SessionID: id,
		Sender:    string(msg.Sender),
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (r *SessionRepository) UpdateStatusAndAgent(ctx context.Context, id string, status domain.SessionStatus, agentID string) error {
	result := r.db.WithContext(ctx).Model(&SessionModel{}).
		Where("session_id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"agent_id":   agentID,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) ListSessions(ctx context.Context, agentID, clientID string) ([]*domain.ChatSession, error) {
	query := r.db.WithContext(ctx).Model(&SessionModel{})
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var models []*SessionModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*domain.ChatSession, 0, len(models))
	for _, model := range models {
		messages, err := r.sessionMessages(ctx, model.SessionID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, toSessionEntity(model, messages))
	}
	return sessions, nil
}

func (r *SessionRepository) sessionMessages(ctx context.Context, id string) ([]domain.ChatMessage, error) {
	var models []*MessageModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get session messages: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(models))
	for _, m := range models {
		messages = append(messages, domain.ChatMessage{
			Sender:    domain.Role(m.Sender),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return messages, nil
}

func toSessionEntity(model *SessionModel, messages []domain.ChatMessage) *domain.ChatSession {
	return &domain.ChatSession{
		SessionID: model.SessionID,
		ClientID:  model.ClientID,
		UserID:    model.UserID,
		AgentID:   model.AgentID,
		Status:    domain.SessionStatus(model.Status),
		Messages:  messages,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
