package adapter

import (
	"context"

	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/providers/telegram"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type TelegramParams struct {
	fx.In

	Log      *zap.Logger
	Resolver domain.Resolver
	Provider telegram.Provider
}

// TelegramAdapter sends via the user's bot token and chat id. Same
// failure policy as Slack: log and move on.
type TelegramAdapter struct {
	log      *zap.Logger
	resolver domain.Resolver
	provider telegram.Provider
}

func NewTelegramAdapter(p TelegramParams) *TelegramAdapter {
	return &TelegramAdapter{log: p.Log, resolver: p.Resolver, provider: p.Provider}
}

func (a *TelegramAdapter) Channel() channel.Channel { return channel.Telegram }

func (a *TelegramAdapter) Send(ctx context.Context, msg channel.Message) channel.Result {
	if !a.resolver.IsChannelEnabled(ctx, msg.Module, msg.UserID, channel.Telegram) {
		return channel.ResultSkipped(channel.Telegram, "channel disabled")
	}

	target, err := a.resolver.ChannelTarget(ctx, msg.UserID, channel.Telegram)
	if err != nil {
		return channel.ResultPermanent(channel.Telegram, "", err)
	}
	if target == nil || target.Token == "" || target.Destination == "" {
		return channel.ResultSkipped(channel.Telegram, "bot not configured")
	}

	if err := a.provider.SendMessage(ctx, target.Token, target.Destination, msg.Text); err != nil {
		return channel.ResultPermanent(channel.Telegram, "", err)
	}
	return channel.ResultDelivered(channel.Telegram)
}
