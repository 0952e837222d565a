package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	"gorm.io/gorm"
)

type Repository interface {
	FindTemplate(ctx context.Context, db *gorm.DB, name string, ownerID snowflake.ID, lang string) (*NotificationTemplate, error)
	ListTemplates(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]NotificationTemplate, error)
	UpsertTemplate(ctx context.Context, db *gorm.DB, tpl *NotificationTemplate) error
	SetTemplateEnabled(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, name string, enabled bool) error

	FindPreference(ctx context.Context, db *gorm.DB, module string, userID snowflake.ID, ch channel.Channel) (*NotificationPreference, error)
	UpsertPreference(ctx context.Context, db *gorm.DB, pref *NotificationPreference) error

	FindChannelTarget(ctx context.Context, db *gorm.DB, userID snowflake.ID, ch channel.Channel) (*ChannelTarget, error)
	UpsertChannelTarget(ctx context.Context, db *gorm.DB, target *ChannelTarget) error

	FindWebhook(ctx context.Context, db *gorm.DB, module string, userID snowflake.ID) (*WebhookEndpoint, error)
	FindWebhookByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*WebhookEndpoint, error)
	ListWebhooks(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) ([]WebhookEndpoint, error)
	InsertWebhook(ctx context.Context, db *gorm.DB, hook *WebhookEndpoint) error
	DeleteWebhook(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
