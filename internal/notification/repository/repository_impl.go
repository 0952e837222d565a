package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

// Provide builds the notification repository.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) FindTemplate(ctx context.Context, db *gorm.DB, name string, ownerID snowflake.ID, lang string) (*domain.NotificationTemplate, error) {
	var tpl domain.NotificationTemplate
	err := db.WithContext(ctx).
		Where("owner_id = ? AND name = ? AND lang = ?", ownerID, strings.TrimSpace(name), strings.TrimSpace(lang)).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *repository) ListTemplates(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]domain.NotificationTemplate, error) {
	var templates []domain.NotificationTemplate
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc, lang asc").
		Find(&templates).Error
	return templates, err
}

func (r *repository) UpsertTemplate(ctx context.Context, db *gorm.DB, tpl *domain.NotificationTemplate) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "name"}, {Name: "lang"}},
			DoUpdates: clause.AssignmentColumns([]string{"subject", "body", "enabled", "updated_at"}),
		}).
		Create(tpl).Error
}

func (r *repository) SetTemplateEnabled(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, name string, enabled bool) error {
	return db.WithContext(ctx).
		Model(&domain.NotificationTemplate{}).
		Where("owner_id = ? AND name = ?", ownerID, strings.TrimSpace(name)).
		Update("enabled", enabled).Error
}

func (r *repository) FindPreference(ctx context.Context, db *gorm.DB, module string, userID snowflake.ID, ch channel.Channel) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	err := db.WithContext(ctx).
		Where("user_id = ? AND module = ? AND channel = ?", userID, strings.TrimSpace(module), ch).
		First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *repository) UpsertPreference(ctx context.Context, db *gorm.DB, pref *domain.NotificationPreference) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "module"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(pref).Error
}

func (r *repository) FindChannelTarget(ctx context.Context, db *gorm.DB, userID snowflake.ID, ch channel.Channel) (*domain.ChannelTarget, error) {
	var target domain.ChannelTarget
	err := db.WithContext(ctx).
		Where("user_id = ? AND channel = ?", userID, ch).
		First(&target).Error
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *repository) UpsertChannelTarget(ctx context.Context, db *gorm.DB, target *domain.ChannelTarget) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{"destination", "token", "updated_at"}),
		}).
		Create(target).Error
}

func (r *repository) FindWebhook(ctx context.Context, db *gorm.DB, module string, userID snowflake.ID) (*domain.WebhookEndpoint, error) {
	var hook domain.WebhookEndpoint
	err := db.WithContext(ctx).
		Where("user_id = ? AND module = ?", userID, strings.TrimSpace(module)).
		First(&hook).Error
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

func (r *repository) FindWebhookByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.WebhookEndpoint, error) {
	var hook domain.WebhookEndpoint
	if err := db.WithContext(ctx).First(&hook, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &hook, nil
}

func (r *repository) ListWebhooks(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) ([]domain.WebhookEndpoint, error) {
	var hooks []domain.WebhookEndpoint
	err := db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at asc").
		Find(&hooks).Error
	return hooks, err
}

func (r *repository) InsertWebhook(ctx context.Context, db *gorm.DB, hook *domain.WebhookEndpoint) error {
	return db.WithContext(ctx).Create(hook).Error
}

func (r *repository) DeleteWebhook(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.WebhookEndpoint{}, "id = ?", id).Error
}
