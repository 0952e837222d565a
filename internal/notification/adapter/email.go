package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/providers/email"
	"github.com/smallbiznis/taskora/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type EmailParams struct {
	fx.In

	Log      *zap.Logger
	Resolver domain.Resolver
	Provider email.Provider
	Throttle *ratelimit.EmailThrottle `optional:"true"`
}

// EmailAdapter renders a tenant template and hands it to the SMTP provider.
// Throttling denials and provider rate caps come back transient; every
// other provider error is permanent and carries a user-facing detail.
type EmailAdapter struct {
	log      *zap.Logger
	resolver domain.Resolver
	provider email.Provider
	throttle *ratelimit.EmailThrottle
}

func NewEmailAdapter(p EmailParams) *EmailAdapter {
	return &EmailAdapter{
		log:      p.Log,
		resolver: p.Resolver,
		provider: p.Provider,
		throttle: p.Throttle,
	}
}

func (a *EmailAdapter) Channel() channel.Channel { return channel.Email }

func (a *EmailAdapter) Send(ctx context.Context, msg channel.Message) channel.Result {
	if len(msg.Recipients) == 0 {
		return channel.ResultSkipped(channel.Email, "no recipient")
	}
	if !a.resolver.IsEmailEnabled(ctx, msg.Template, msg.OwnerID) {
		return channel.ResultSkipped(channel.Email, "template disabled")
	}

	tpl, err := a.resolver.ResolveTemplate(ctx, msg.Template, msg.OwnerID, msg.Lang)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		return channel.ResultSkipped(channel.Email, "template missing")
	}
	if err != nil {
		return channel.ResultPermanent(channel.Email, failDetail(msg.Label, err), err)
	}

	if !a.throttle.Allow(ctx, msg.OwnerID) {
		return channel.ResultTransient(channel.Email, errors.New("email throttled"))
	}

	subject := email.Render(tpl.Subject, msg.Vars)
	body := email.Render(tpl.Body, msg.Vars)

	if err := a.provider.Send(ctx, msg.Recipients, subject, body); err != nil {
		if email.IsTransient(err) {
			return channel.ResultTransient(channel.Email, err)
		}
		return channel.ResultPermanent(channel.Email, failDetail(msg.Label, err), err)
	}
	return channel.ResultDelivered(channel.Email)
}

func failDetail(label string, err error) string {
	return fmt.Sprintf("Failed to send %s email: %v", label, err)
}
