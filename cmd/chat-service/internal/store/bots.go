package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/Kozeke/marketplace-chatwidget/infra/database"
)

// BotAgentModel holds one automated-responder config per (website, intent).
// The config document is free-form; the dashboard owns its schema.
type BotAgentModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	WebsiteID string `gorm:"uniqueIndex:idx_site_intent;size:64;not null"`
	Intent    string `gorm:"uniqueIndex:idx_site_intent;size:64;not null"`
	Config    []byte `gorm:"type:jsonb;not null"`
}

func (BotAgentModel) TableName() string {
	return "bot_agents"
}

type ChainModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	WebsiteID     string `gorm:"uniqueIndex:idx_site_chain;size:64;not null"`
	ChainID       string `gorm:"uniqueIndex:idx_site_chain;size:64;not null"`
	AgentSequence []byte `gorm:"type:jsonb;not null"`
}

func (ChainModel) TableName() string {
	return "agent_chains"
}

type BotRepository struct {
	db *database.Postgres
}

func NewBotRepository(db *database.Postgres) *BotRepository {
	return &BotRepository{db: db}
}

func (r *BotRepository) UpsertBotAgent(ctx context.Context, websiteID, intent string, config json.RawMessage) error {
	model := &BotAgentModel{WebsiteID: websiteID, Intent: intent, Config: config}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "website_id"}, {Name: "intent"}},
		DoUpdates: clause.AssignmentColumns([]string{"config"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert bot agent: %w", err)
	}
	return nil
}

func (r *BotRepository) ListBotAgents(ctx context.Context, websiteID, intent string) ([]json.RawMessage, error) {
	query := r.db.WithContext(ctx).Model(&BotAgentModel{}).Where("website_id = ?", websiteID)
	if intent != "" {
		query = query.Where("intent = ?", intent)
	}

	var models []*BotAgentModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bot agents: %w", err)
	}

	configs := make([]json.RawMessage, 0, len(models))
	for _, m := range models {
		configs = append(configs, json.RawMessage(m.Config))
	}
	return configs, nil
}

func (r *BotRepository) UpsertChain(ctx context.Context, websiteID, chainID string, agentSequence json.RawMessage) error {
	model := &ChainModel{WebsiteID: websiteID, ChainID: chainID, AgentSequence: agentSequence}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "website_id"}, {Name: "chain_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"agent_sequence"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert chain: %w", err)
	}
	return nil
}

func (r *BotRepository) ListChains(ctx context.Context, websiteID string) ([]json.RawMessage, error) {
	var models []*ChainModel
	if err := r.db.WithContext(ctx).
		Where("website_id = ?", websiteID).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}

	chains := make([]json.RawMessage, 0, len(models))
	for _, m := range models {
		chains = append(chains, json.RawMessage(m.AgentSequence))
	}
	return chains, nil
}
