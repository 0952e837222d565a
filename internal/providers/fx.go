package providers

import (
	"github.com/smallbiznis/taskora/internal/providers/email"
	"github.com/smallbiznis/taskora/internal/providers/slack"
	"github.com/smallbiznis/taskora/internal/providers/telegram"
	"github.com/smallbiznis/taskora/internal/providers/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	slack.Module,
	telegram.Module,
	webhook.Module,
)
