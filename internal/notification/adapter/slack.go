package adapter

import (
	"context"

	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SlackParams struct {
	fx.In

	Log      *zap.Logger
	Resolver domain.Resolver
	Provider slack.Provider
}

// SlackAdapter posts to the user's configured incoming webhook. Chat
// failures never surface to the acting request; they are logged and the
// event continues.
type SlackAdapter struct {
	log      *zap.Logger
	resolver domain.Resolver
	provider slack.Provider
}

func NewSlackAdapter(p SlackParams) *SlackAdapter {
	return &SlackAdapter{log: p.Log, resolver: p.Resolver, provider: p.Provider}
}

func (a *SlackAdapter) Channel() channel.Channel { return channel.Slack }

func (a *SlackAdapter) Send(ctx context.Context, msg channel.Message) channel.Result {
	if !a.resolver.IsChannelEnabled(ctx, msg.Module, msg.UserID, channel.Slack) {
		return channel.ResultSkipped(channel.Slack, "channel disabled")
	}

	target, err := a.resolver.ChannelTarget(ctx, msg.UserID, channel.Slack)
	if err != nil {
		return channel.ResultPermanent(channel.Slack, "", err)
	}
	if target == nil || target.Destination == "" {
		return channel.ResultSkipped(channel.Slack, "no webhook configured")
	}

	if err := a.provider.PostMessage(ctx, target.Destination, msg.Text); err != nil {
		return channel.ResultPermanent(channel.Slack, "", err)
	}
	return channel.ResultDelivered(channel.Slack)
}
