package slack

import (
	"time"

	"github.com/smallbiznis/taskora/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.slack",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewWebhookProvider(time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second)
}
