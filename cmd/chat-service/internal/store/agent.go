package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
	"github.com/Kozeke/marketplace-chatwidget/infra/database"
)

type HumanAgentModel struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	WebsiteID  string     `gorm:"uniqueIndex:idx_site_agent;size:64;not null"`
	AgentID    string     `gorm:"uniqueIndex:idx_site_agent;index;size:64;not null"`
	Name       string     `gorm:"size:255"`
	Email      string     `gorm:"size:255"`
	Status     string     `gorm:"size:16;not null;default:offline"`
	LastActive *time.Time
}

func (HumanAgentModel) TableName() string {
	return "human_agents"
}

// AgentRepository is the agent directory: the router reads it to pick an
// escalation target, the dashboard mutates it.
type AgentRepository struct {
	db *database.Postgres
}

func NewAgentRepository(db *database.Postgres) *AgentRepository {
	return &AgentRepository{db: db}
}

// ListOnlineAgents returns online agents for a site ordered by primary key;
// this insertion order is the router's documented tie-break.
func (r *AgentRepository) ListOnlineAgents(ctx context.Context, siteID string) ([]*domain.HumanAgent, error) {
	var models []*HumanAgentModel
	if err := r.db.WithContext(ctx).
		Where("website_id = ? AND status = ?", siteID, string(domain.AgentOnline)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list online agents: %w", err)
	}
	return toAgentEntities(models), nil
}

func (r *AgentRepository) SetAgentStatus(ctx context.Context, agentID string, status domain.AgentStatus, lastActive time.Time) error {
	result := r.db.WithContext(ctx).Model(&HumanAgentModel{}).
		Where("agent_id = ?", agentID).
		Updates(map[string]any{
			"status":      string(status),
			"last_active": lastActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update agent status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

func (r *AgentRepository) UpsertAgent(ctx context.Context, agent *domain.HumanAgent) error {
	model := &HumanAgentModel{
		WebsiteID:  agent.WebsiteID,
		AgentID:    agent.AgentID,
		Name:       agent.Name,
		Email:      agent.Email,
		Status:     string(agent.Status),
		LastActive: agent.LastActive,
	}
	if model.Status == "" {
		model.Status = string(domain.AgentOffline)
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "website_id"}, {Name: "agent_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "status", "last_active"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert agent: %w", err)
	}
	return nil
}

func (r *AgentRepository) ListAgents(ctx context.Context, websiteID, agentID string) ([]*domain.HumanAgent, error) {
	query := r.db.WithContext(ctx).Model(&HumanAgentModel{}).Where("website_id = ?", websiteID)
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}

	var models []*HumanAgentModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return toAgentEntities(models), nil
}

func toAgentEntities(models []*HumanAgentModel) []*domain.HumanAgent {
	agents := make([]*domain.HumanAgent, 0, len(models))
	for _, m := range models {
		agents = append(agents, &domain.HumanAgent{
			WebsiteID:  m.WebsiteID,
			AgentID:    m.AgentID,
			Name:       m.Name,
			Email:      m.Email,
			Status:     domain.AgentStatus(m.Status),
			LastActive: m.LastActive,
		})
	}
	return agents
}
