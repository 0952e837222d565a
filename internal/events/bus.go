package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/taskora/internal/notification/channel"
	obsmetrics "github.com/smallbiznis/taskora/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Listener is one unit of work bound to a single (event type, channel) pair.
type Listener interface {
	Name() string
	Handle(ctx context.Context, evt Event) []channel.Result
}

// Attempt records one delivery attempt made while draining an event.
type Attempt struct {
	Listener string
	Channel  channel.Channel
	Outcome  channel.Outcome
	Detail   string
	Err      error
}

// Report aggregates the attempts of one Publish call. It replaces ambient
// flash/session state: the request layer decides what to surface.
type Report struct {
	Attempts []Attempt
}

// EmailError returns the first user-visible permanent email failure, or "".
// Transient email failures and every non-email channel stay silent.
func (r *Report) EmailError() string {
	if r == nil {
		return ""
	}
	for _, a := range r.Attempts {
		if a.Channel == channel.Email && a.Outcome == channel.PermanentFailure && a.Detail != "" {
			return a.Detail
		}
	}
	return ""
}

// Failed returns every non-delivered, non-skipped attempt.
func (r *Report) Failed() []Attempt {
	if r == nil {
		return nil
	}
	var failed []Attempt
	for _, a := range r.Attempts {
		if a.Outcome == channel.TransientFailure || a.Outcome == channel.PermanentFailure {
			failed = append(failed, a)
		}
	}
	return failed
}

// Bus is the in-process publish/subscribe fan-out. Registration happens once
// at startup; Publish synchronously drains every listener for the event type
// in registration order and never lets one listener's failure reach another.
type Bus struct {
	log      *zap.Logger
	metrics  *obsmetrics.DeliveryMetrics
	handlers map[Type][]Listener
}

type BusParams struct {
	fx.In

	Log     *zap.Logger
	Metrics *obsmetrics.DeliveryMetrics `optional:"true"`
}

func NewBus(p BusParams) *Bus {
	return &Bus{
		log:      p.Log.Named("events.bus"),
		metrics:  p.Metrics,
		handlers: make(map[Type][]Listener),
	}
}

// Subscribe appends listeners for the event type. Not safe for use after the
// application has started serving; the registration table is fixed at startup.
func (b *Bus) Subscribe(t Type, listeners ...Listener) {
	b.handlers[t] = append(b.handlers[t], listeners...)
}

// Subscribers returns the number of listeners registered for the type.
func (b *Bus) Subscribers(t Type) int {
	return len(b.handlers[t])
}

// Publish synchronously invokes every listener registered for evt.Type. All
// listener work has completed, or failed and been swallowed, by the time it
// returns. Callers that must not block on slow channels run Publish off the
// response path themselves.
func (b *Bus) Publish(ctx context.Context, evt Event) *Report {
	report := &Report{}
	for _, l := range b.handlers[evt.Type] {
		results := b.invoke(ctx, l, evt)
		for _, res := range results {
			report.Attempts = append(report.Attempts, Attempt{
				Listener: l.Name(),
				Channel:  res.Channel,
				Outcome:  res.Outcome,
				Detail:   res.Detail,
				Err:      res.Err,
			})
			if b.metrics != nil {
				b.metrics.RecordDelivery(string(res.Channel), string(res.Outcome))
			}
			b.logResult(l.Name(), evt, res)
		}
	}
	return report
}

// invoke shields the bus from a listener panic. The failed listener is
// reported as a permanent failure on its own attempt; the remaining
// listeners still run.
func (b *Bus) invoke(ctx context.Context, l Listener, evt Event) (results []channel.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			if b.metrics != nil {
				b.metrics.RecordListenerFailure(l.Name())
			}
			b.log.Error("listener panic",
				zap.String("listener", l.Name()),
				zap.String("event_type", string(evt.Type)),
				zap.Any("panic", rec),
			)
			results = []channel.Result{{
				Outcome: channel.PermanentFailure,
				Err:     fmt.Errorf("listener %s panicked: %v", l.Name(), rec),
			}}
		}
	}()
	return l.Handle(ctx, evt)
}

func (b *Bus) logResult(listener string, evt Event, res channel.Result) {
	fields := []zap.Field{
		zap.String("listener", listener),
		zap.String("event_type", string(evt.Type)),
		zap.String("channel", string(res.Channel)),
		zap.String("outcome", string(res.Outcome)),
	}
	if res.Err != nil {
		fields = append(fields, zap.Error(res.Err))
	}
	if detail := strings.TrimSpace(res.Detail); detail != "" {
		fields = append(fields, zap.String("detail", detail))
	}

	switch res.Outcome {
	case channel.PermanentFailure:
		b.log.Warn("delivery failed", fields...)
	case channel.TransientFailure:
		b.log.Debug("delivery rate limited", fields...)
	default:
		b.log.Debug("delivery attempt", fields...)
	}
}
