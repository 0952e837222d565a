package listeners

import (
	"context"

	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/notification/channel"
)

// webhookListener forwards the full typed payload to the tenant owner's
// registered endpoint for the module. The adapter checks registration
// before doing any payload work.
type webhookListener struct {
	set    *Set
	name   string
	module string
}

func (s *Set) webhookListener(name, module string) *webhookListener {
	return &webhookListener{set: s, name: name, module: module}
}

func (l *webhookListener) Name() string { return l.name }

func (l *webhookListener) Handle(ctx context.Context, evt events.Event) []channel.Result {
	ownerID, ok := l.set.owner(ctx, evt)
	if !ok {
		return []channel.Result{channel.ResultSkipped(channel.Webhook, "no resolvable owner")}
	}

	return []channel.Result{l.set.webhook.Send(ctx, channel.Message{
		Module:      l.module,
		OwnerID:     ownerID,
		UserID:      ownerID,
		WorkspaceID: evt.WorkspaceID,
		Entity:      evt.Payload,
	})}
}
