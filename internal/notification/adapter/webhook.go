package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/providers/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type WebhookParams struct {
	fx.In

	Log      *zap.Logger
	Resolver domain.Resolver
	Provider webhook.Provider
}

// WebhookAdapter delivers the entity snapshot to a registered endpoint.
// The registration lookup runs before any payload work so unregistered
// modules cost one indexed query and nothing else.
type WebhookAdapter struct {
	log      *zap.Logger
	resolver domain.Resolver
	provider webhook.Provider
}

func NewWebhookAdapter(p WebhookParams) *WebhookAdapter {
	return &WebhookAdapter{log: p.Log, resolver: p.Resolver, provider: p.Provider}
}

func (a *WebhookAdapter) Channel() channel.Channel { return channel.Webhook }

func (a *WebhookAdapter) Send(ctx context.Context, msg channel.Message) channel.Result {
	hook, err := a.resolver.WebhookFor(ctx, msg.Module, msg.UserID)
	if err != nil {
		return channel.ResultPermanent(channel.Webhook, "", err)
	}
	if hook == nil {
		return channel.ResultSkipped(channel.Webhook, "no endpoint registered")
	}

	payload, err := json.Marshal(webhookEnvelope{
		Module:    msg.Module,
		SentAt:    time.Now().UTC(),
		Workspace: msg.WorkspaceID.String(),
		Data:      msg.Entity,
	})
	if err != nil {
		return channel.ResultPermanent(channel.Webhook, "", err)
	}

	if err := a.provider.Deliver(ctx, hook.URL, hook.Secret, payload); err != nil {
		return channel.ResultPermanent(channel.Webhook, "", err)
	}
	return channel.ResultDelivered(channel.Webhook)
}

type webhookEnvelope struct {
	Module    string    `json:"module"`
	SentAt    time.Time `json:"sent_at"`
	Workspace string    `json:"workspace_id"`
	Data      any       `json:"data"`
}
