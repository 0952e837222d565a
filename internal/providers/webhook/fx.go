package webhook

import (
	"time"

	"github.com/smallbiznis/taskora/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.webhook",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewHTTPProvider(time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second)
}
