package telegram

import (
	"time"

	"github.com/smallbiznis/taskora/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.telegram",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewBotProvider(cfg.Telegram.APIBase, time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second)
}
