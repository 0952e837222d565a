package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/notification/channel"
)

// Resolver answers, at dispatch time, whether a delivery is enabled and what
// content it carries. Pure reads; nothing here is cached across events.
type Resolver interface {
	// IsEmailEnabled reports whether an enabled template record exists for
	// templateName scoped to the resolved tenant owner.
	IsEmailEnabled(ctx context.Context, templateName string, ownerID snowflake.ID) bool

	// IsChannelEnabled generalizes the same idea to chat channels.
	IsChannelEnabled(ctx context.Context, module string, userID snowflake.ID, ch channel.Channel) bool

	// ResolveTemplate returns the owner's template for lang, falling back to
	// the default language, and ErrTemplateNotFound if neither exists.
	ResolveTemplate(ctx context.Context, templateName string, ownerID snowflake.ID, lang string) (*NotificationTemplate, error)

	// ChannelTarget returns the configured chat destination, or nil when the
	// channel is unconfigured for the user.
	ChannelTarget(ctx context.Context, userID snowflake.ID, ch channel.Channel) (*ChannelTarget, error)

	// WebhookFor returns the registered endpoint, or nil when none exists.
	WebhookFor(ctx context.Context, module string, userID snowflake.ID) (*WebhookEndpoint, error)
}

// Service exposes the admin surface for templates, preferences and webhooks.
type Service interface {
	ListTemplates(ctx context.Context, ownerID snowflake.ID) ([]NotificationTemplate, error)
	SetTemplateEnabled(ctx context.Context, ownerID snowflake.ID, name string, enabled bool) error
	SetPreference(ctx context.Context, pref NotificationPreference) error
	SetChannelTarget(ctx context.Context, target ChannelTarget) error
	RegisterWebhook(ctx context.Context, hook WebhookEndpoint) (WebhookEndpoint, error)
	ListWebhooks(ctx context.Context, workspaceID snowflake.ID) ([]WebhookEndpoint, error)
	RemoveWebhook(ctx context.Context, id snowflake.ID) error
}

var (
	ErrTemplateNotFound = errors.New("template_not_found")
	ErrInvalidModule    = errors.New("invalid_module")
	ErrInvalidChannel   = errors.New("invalid_channel")
	ErrInvalidURL       = errors.New("invalid_url")
	ErrNotFound         = errors.New("not_found")
)

// KnownModule reports whether the module name is one of the fixed set.
func KnownModule(module string) bool {
	for _, m := range Modules {
		if m == module {
			return true
		}
	}
	return false
}

// KnownChannel reports whether ch is a supported delivery channel.
func KnownChannel(ch channel.Channel) bool {
	switch ch {
	case channel.Email, channel.Slack, channel.Telegram, channel.Webhook:
		return true
	default:
		return false
	}
}
