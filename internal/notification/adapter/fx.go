package adapter

import "go.uber.org/fx"

var Module = fx.Module("notification.adapter",
	fx.Provide(
		NewEmailAdapter,
		NewSlackAdapter,
		NewTelegramAdapter,
		NewWebhookAdapter,
	),
)
