package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
	"github.com/Kozeke/marketplace-chatwidget/infra/database"
)

type WidgetSettingsModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	ClientID string `gorm:"uniqueIndex;size:64;not null"`
	Settings []byte `gorm:"type:jsonb;not null"`
}

func (WidgetSettingsModel) TableName() string {
	return "widget_settings"
}

type WidgetRepository struct {
	db *database.Postgres
}

func NewWidgetRepository(db *database.Postgres) *WidgetRepository {
	return &WidgetRepository{db: db}
}

// GetOrCreate returns the stored settings for clientID, seeding defaults on
// first access like the widget expects.
func (r *WidgetRepository) GetOrCreate(ctx context.Context, clientID string) (*domain.WidgetSettings, error) {
	var model WidgetSettingsModel
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&model).Error
	if err == nil {
		var settings domain.WidgetSettings
		if err := json.Unmarshal(model.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to decode widget settings: %w", err)
		}
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get widget settings: %w", err)
	}

	defaults := domain.DefaultWidgetSettings()
	if err := r.Update(ctx, clientID, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}

func (r *WidgetRepository) Update(ctx context.Context, clientID string, settings *domain.WidgetSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode widget settings: %w", err)
	}
	model := &WidgetSettingsModel{ClientID: clientID, Settings: data}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save widget settings: %w", err)
	}
	return nil
}
